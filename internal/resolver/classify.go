package resolver

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xxmmxw/Address-lookup/pkg/arcgis"
)

// Classifier performs point-in-polygon lookups against named boundary
// layers. One instance serves any layer; the endpoint and property name
// vary per call.
type Classifier struct {
	client arcgis.Client
}

// NewClassifier creates a Classifier using the given query client.
func NewClassifier(client arcgis.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify queries the layer for polygons intersecting the point and
// returns the named property of the first match. ok=false means the
// point fell outside every polygon, or the matched feature lacked the
// property. Either way that is a valid outcome, not a failure.
func (c *Classifier) Classify(ctx context.Context, endpoint string, lat, lon float64, property string) (value string, ok bool, err error) {
	params := []arcgis.Param{
		{Key: "geometry", Value: formatCoord(lon) + "," + formatCoord(lat)},
		{Key: "geometryType", Value: "esriGeometryPoint"},
		{Key: "inSR", Value: "4326"},
		{Key: "spatialRel", Value: "esriSpatialRelIntersects"},
		{Key: "outFields", Value: "*"},
		{Key: "returnGeometry", Value: "false"},
		{Key: "f", Value: "geoJSON"},
	}

	fc, err := c.client.Query(ctx, endpoint, params)
	if err != nil {
		return "", false, eris.Wrap(err, "resolver: classify query")
	}

	if len(fc.Features) == 0 {
		zap.L().Debug("no intersecting polygon",
			zap.String("endpoint", endpoint),
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
		)
		return "", false, nil
	}

	value, ok = fc.Features[0].StringProperty(property)
	return value, ok, nil
}

// formatCoord renders a coordinate component with the shortest exact
// decimal representation.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
