package arcgis

import (
	"fmt"
)

// Kind classifies a failed feature-service query.
type Kind string

const (
	// KindTimeout means the request exceeded its deadline.
	KindTimeout Kind = "timeout"
	// KindHTTPStatus means the service answered with a non-2xx status.
	KindHTTPStatus Kind = "http_status"
	// KindParse means the 2xx response body was not valid JSON.
	KindParse Kind = "parse"
	// KindTransport covers connection-level failures (refused, reset, DNS).
	KindTransport Kind = "transport"
)

// QueryError is the failure outcome of a single query attempt. Callers
// branch on Kind via errors.As; Snippet is only set for KindHTTPStatus and
// is already truncated to a bounded length.
type QueryError struct {
	Kind    Kind
	Status  int
	Snippet string
	Err     error
}

func (e *QueryError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("arcgis: http %d: %s", e.Status, e.Snippet)
	case KindTimeout:
		return fmt.Sprintf("arcgis: timeout: %v", e.Err)
	case KindParse:
		return fmt.Sprintf("arcgis: parse response: %v", e.Err)
	default:
		return fmt.Sprintf("arcgis: transport: %v", e.Err)
	}
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
