package resolver

// SourceLabel identifies the upstream data provider in every success
// response.
const SourceLabel = "NSW Spatial Services"

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoFeature is the geocode outcome for an address: a coordinate plus
// whichever source identifiers the feature carried. Nil identifier
// pointers mean the field was missing or null upstream.
type GeoFeature struct {
	Lon                     float64
	Lat                     float64
	GURASID                 *int64
	PrincipalAddressSiteOID *int64
}

// ResolvedAddress is the terminal success value returned to the caller.
// Optional fields are omitted from the serialized body when absent;
// Location is always present.
type ResolvedAddress struct {
	Address     string           `json:"address"`
	Location    Location         `json:"location"`
	Suburb      *string          `json:"suburb,omitempty"`
	District    *string          `json:"state_electoral_district,omitempty"`
	Identifiers map[string]int64 `json:"identifiers,omitempty"`
	Source      string           `json:"source"`
}
