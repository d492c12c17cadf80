package resolver

import "strings"

// Normalize canonicalizes a raw address: trimmed and uppercased. The
// result is idempotent and is the form echoed back in responses.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// escapeFilterValue doubles single quotes so a value can be embedded in
// an attribute-filter expression without corrupting its syntax. Applied
// only when building the filter, never to the echoed address.
func escapeFilterValue(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
