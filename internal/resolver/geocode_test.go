package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xxmmxw/Address-lookup/pkg/arcgis"
)

func TestGeocoderResolve(t *testing.T) {
	fake := newFakeClient()
	fake.responses[testGeocodeURL] = bathurstGeocodeBody

	g := NewGeocoder(fake, testGeocodeURL)
	geo, err := g.Resolve(context.Background(), "346 PANORAMA AVENUE BATHURST")
	require.NoError(t, err)

	assert.InDelta(t, 149.5775, geo.Lon, 1e-9)
	assert.InDelta(t, -33.4193, geo.Lat, 1e-9)
	require.NotNil(t, geo.GURASID)
	assert.Equal(t, int64(45678901), *geo.GURASID)
	require.NotNil(t, geo.PrincipalAddressSiteOID)
	assert.Equal(t, int64(1234567), *geo.PrincipalAddressSiteOID)

	assert.Equal(t, "address = '346 PANORAMA AVENUE BATHURST'", fake.paramValue(t, testGeocodeURL, "where"))
	assert.Equal(t, "*", fake.paramValue(t, testGeocodeURL, "outFields"))
	assert.Equal(t, "geojson", fake.paramValue(t, testGeocodeURL, "f"))
}

func TestGeocoderResolve_QuoteEscaping(t *testing.T) {
	fake := newFakeClient()
	fake.responses[testGeocodeURL] = bathurstGeocodeBody

	g := NewGeocoder(fake, testGeocodeURL)
	_, err := g.Resolve(context.Background(), "12 O'CONNOR STREET")
	require.NoError(t, err)

	assert.Equal(t, "address = '12 O''CONNOR STREET'", fake.paramValue(t, testGeocodeURL, "where"))
}

func TestGeocoderResolve_NotFound(t *testing.T) {
	fake := newFakeClient()
	fake.responses[testGeocodeURL] = `{"features":[]}`

	g := NewGeocoder(fake, testGeocodeURL)
	_, err := g.Resolve(context.Background(), "1 NOWHERE ROAD")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestGeocoderResolve_NonArrayFeatures(t *testing.T) {
	// A features value that is not an array means no match for the
	// address, same as an empty array.
	fake := newFakeClient()
	fake.responses[testGeocodeURL] = `{"features":"oops"}`

	g := NewGeocoder(fake, testGeocodeURL)
	_, err := g.Resolve(context.Background(), "1 NOWHERE ROAD")
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestGeocoderResolve_MissingIdentifiers(t *testing.T) {
	fake := newFakeClient()
	fake.responses[testGeocodeURL] = `{
		"features": [
			{
				"geometry": {"type": "Point", "coordinates": [150.0, -33.0]},
				"properties": {"gurasid": null}
			}
		]
	}`

	g := NewGeocoder(fake, testGeocodeURL)
	geo, err := g.Resolve(context.Background(), "9 SOMEWHERE STREET")
	require.NoError(t, err)

	assert.Nil(t, geo.GURASID)
	assert.Nil(t, geo.PrincipalAddressSiteOID)
}

func TestGeocoderResolve_UpstreamError(t *testing.T) {
	fake := newFakeClient()
	fake.errs[testGeocodeURL] = &arcgis.QueryError{Kind: arcgis.KindTimeout}

	g := NewGeocoder(fake, testGeocodeURL)
	_, err := g.Resolve(context.Background(), "346 PANORAMA AVENUE BATHURST")
	require.Error(t, err)

	var qe *arcgis.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, arcgis.KindTimeout, qe.Kind)
}

func TestGeocoderResolve_MalformedGeometry(t *testing.T) {
	fake := newFakeClient()
	fake.responses[testGeocodeURL] = `{
		"features": [{"geometry": null, "properties": {}}]
	}`

	g := NewGeocoder(fake, testGeocodeURL)
	_, err := g.Resolve(context.Background(), "346 PANORAMA AVENUE BATHURST")
	require.Error(t, err)

	var qe *arcgis.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, arcgis.KindParse, qe.Kind)
}
