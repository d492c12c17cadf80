package resolver

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxmmxw/Address-lookup/internal/config"
	"github.com/xxmmxw/Address-lookup/pkg/arcgis"
)

// fakeClient serves canned feature collections per endpoint and records
// every call for order and parameter assertions.
type fakeClient struct {
	mu         sync.Mutex
	responses  map[string]string // endpoint -> JSON feature collection
	errs       map[string]error
	calls      []string
	lastParams map[string][]arcgis.Param
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		responses:  make(map[string]string),
		errs:       make(map[string]error),
		lastParams: make(map[string][]arcgis.Param),
	}
}

func (f *fakeClient) Query(_ context.Context, endpoint string, params []arcgis.Param) (*arcgis.FeatureCollection, error) {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint)
	f.lastParams[endpoint] = params
	f.mu.Unlock()

	if err, ok := f.errs[endpoint]; ok {
		return nil, err
	}

	body, ok := f.responses[endpoint]
	if !ok {
		return &arcgis.FeatureCollection{}, nil
	}
	var fc arcgis.FeatureCollection
	if err := json.Unmarshal([]byte(body), &fc); err != nil {
		panic("fakeClient: bad canned response: " + err.Error())
	}
	return &fc, nil
}

func (f *fakeClient) endpointCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) paramValue(t *testing.T, endpoint, key string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	params, ok := f.lastParams[endpoint]
	require.True(t, ok, "no call recorded for %s", endpoint)
	for _, p := range params {
		if p.Key == key {
			return p.Value
		}
	}
	t.Fatalf("parameter %q not sent to %s", key, endpoint)
	return ""
}

const (
	testGeocodeURL  = "https://example.test/geocode/query"
	testSuburbURL   = "https://example.test/suburb/query"
	testDistrictURL = "https://example.test/district/query"
)

func testUpstreamConfig(concurrent bool) config.UpstreamConfig {
	return config.UpstreamConfig{
		GeocodeURL:         testGeocodeURL,
		SuburbURL:          testSuburbURL,
		DistrictURL:        testDistrictURL,
		ConcurrentClassify: concurrent,
	}
}

const bathurstGeocodeBody = `{
	"features": [
		{
			"geometry": {"type": "Point", "coordinates": [149.5775, -33.4193]},
			"properties": {"gurasid": 45678901, "principaladdresssiteoid": 1234567}
		}
	]
}`

func suburbBody(name string) string {
	return `{"features":[{"geometry":null,"properties":{"suburbname":"` + name + `"}}]}`
}

func districtBody(name string) string {
	return `{"features":[{"geometry":null,"properties":{"districtname":"` + name + `"}}]}`
}
