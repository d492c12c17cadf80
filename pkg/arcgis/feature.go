package arcgis

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection is the GeoJSON-shaped body returned by a query endpoint.
type FeatureCollection struct {
	Features []Feature `json:"features"`
}

// UnmarshalJSON decodes the collection, treating a features value that is
// missing, null, or not an array as an empty collection. The layers signal
// "no match" inconsistently, and a degenerate features shape means no
// matches, not a malformed response.
func (fc *FeatureCollection) UnmarshalJSON(data []byte) error {
	var raw struct {
		Features json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fc.Features = nil
	if len(raw.Features) == 0 || bytes.Equal(raw.Features, jsonNull) || raw.Features[0] != '[' {
		return nil
	}
	return json.Unmarshal(raw.Features, &fc.Features)
}

// Feature is a single geographic record: a geometry plus a properties map.
// Geometry is kept raw because polygon-layer queries omit it entirely
// (returnGeometry=false serializes it as null).
type Feature struct {
	Geometry   json.RawMessage            `json:"geometry"`
	Properties map[string]json.RawMessage `json:"properties"`
}

var jsonNull = []byte("null")

// Point decodes the feature geometry as a point and returns its
// longitude and latitude.
func (f *Feature) Point() (lon, lat float64, err error) {
	if len(f.Geometry) == 0 || bytes.Equal(f.Geometry, jsonNull) {
		return 0, 0, eris.New("arcgis: feature has no geometry")
	}

	var g geom.T
	if err := geojson.Unmarshal(f.Geometry, &g); err != nil {
		return 0, 0, eris.Wrap(err, "arcgis: decode geometry")
	}

	p, ok := g.(*geom.Point)
	if !ok {
		return 0, 0, eris.Errorf("arcgis: geometry is %T, want point", g)
	}

	return p.X(), p.Y(), nil
}

// StringProperty returns the named property as a string. A missing,
// null, or non-string property reports ok=false.
func (f *Feature) StringProperty(name string) (value string, ok bool) {
	raw, present := f.Properties[name]
	if !present || bytes.Equal(raw, jsonNull) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// IntProperty returns the named property as an int64. A missing, null,
// or non-integer property reports ok=false.
func (f *Feature) IntProperty(name string) (value int64, ok bool) {
	raw, present := f.Properties[name]
	if !present || bytes.Equal(raw, jsonNull) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}
