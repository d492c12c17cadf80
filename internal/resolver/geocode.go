package resolver

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/xxmmxw/Address-lookup/pkg/arcgis"
)

// ErrAddressNotFound reports that the geocode layer has no feature for
// the address. This is a legitimate empty result, not an upstream fault.
var ErrAddressNotFound = errors.New("address not found")

// Geocoder resolves a normalized address to a coordinate and source
// identifiers via an attribute-filter query.
type Geocoder struct {
	client   arcgis.Client
	endpoint string
}

// NewGeocoder creates a Geocoder against the given query endpoint.
func NewGeocoder(client arcgis.Client, endpoint string) *Geocoder {
	return &Geocoder{client: client, endpoint: endpoint}
}

// Resolve looks up the address and returns the first matching feature's
// coordinate and identifiers. The address must already be normalized;
// quote escaping for the filter happens here.
func (g *Geocoder) Resolve(ctx context.Context, normalized string) (*GeoFeature, error) {
	params := []arcgis.Param{
		{Key: "where", Value: "address = '" + escapeFilterValue(normalized) + "'"},
		{Key: "outFields", Value: "*"},
		{Key: "f", Value: "geojson"},
	}

	fc, err := g.client.Query(ctx, g.endpoint, params)
	if err != nil {
		return nil, eris.Wrap(err, "resolver: geocode query")
	}

	if len(fc.Features) == 0 {
		return nil, ErrAddressNotFound
	}

	feat := fc.Features[0]
	lon, lat, err := feat.Point()
	if err != nil {
		// A feature without a usable point geometry is an upstream
		// parse fault, not a missing address.
		return nil, &arcgis.QueryError{Kind: arcgis.KindParse, Err: err}
	}

	result := &GeoFeature{Lon: lon, Lat: lat}
	if id, ok := feat.IntProperty("gurasid"); ok {
		result.GURASID = &id
	}
	if id, ok := feat.IntProperty("principaladdresssiteoid"); ok {
		result.PrincipalAddressSiteOID = &id
	}

	return result, nil
}
