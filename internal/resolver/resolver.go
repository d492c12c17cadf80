// Package resolver implements the address-resolution pipeline: normalize
// the input, geocode it to a coordinate, then classify that coordinate
// against the suburb and state-electoral-district boundary layers.
package resolver

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xxmmxw/Address-lookup/internal/config"
	"github.com/xxmmxw/Address-lookup/pkg/arcgis"
)

// Property names read from the first matching polygon feature.
const (
	suburbProperty   = "suburbname"
	districtProperty = "districtname"
)

// ErrBlankAddress reports that the input address was empty after trimming.
var ErrBlankAddress = errors.New("resolver: blank address")

// Resolver orchestrates the geocode and classification lookups for one
// address. It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	geocoder    *Geocoder
	classifier  *Classifier
	suburbURL   string
	districtURL string
	concurrent  bool
}

// New creates a Resolver over a shared query client.
func New(client arcgis.Client, cfg config.UpstreamConfig) *Resolver {
	return &Resolver{
		geocoder:    NewGeocoder(client, cfg.GeocodeURL),
		classifier:  NewClassifier(client),
		suburbURL:   cfg.SuburbURL,
		districtURL: cfg.DistrictURL,
		concurrent:  cfg.ConcurrentClassify,
	}
}

// Resolve runs the full pipeline for a raw address string. Failures pass
// through with their classification intact so the transport adapter can
// map them to a status; a missing suburb or district is not a failure and
// leaves the field unset.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*ResolvedAddress, error) {
	normalized := Normalize(raw)
	if normalized == "" {
		return nil, ErrBlankAddress
	}

	geo, err := r.geocoder.Resolve(ctx, normalized)
	if err != nil {
		return nil, err
	}

	var suburb, district *string
	if r.concurrent {
		suburb, district, err = r.classifyConcurrent(ctx, geo)
	} else {
		suburb, district, err = r.classifySequential(ctx, geo)
	}
	if err != nil {
		return nil, err
	}

	out := &ResolvedAddress{
		Address:  normalized,
		Location: Location{Lat: geo.Lat, Lon: geo.Lon},
		Suburb:   suburb,
		District: district,
		Source:   SourceLabel,
	}
	if geo.GURASID != nil || geo.PrincipalAddressSiteOID != nil {
		out.Identifiers = make(map[string]int64, 2)
		if geo.GURASID != nil {
			out.Identifiers["gurasid"] = *geo.GURASID
		}
		if geo.PrincipalAddressSiteOID != nil {
			out.Identifiers["principaladdresssiteoid"] = *geo.PrincipalAddressSiteOID
		}
	}

	zap.L().Debug("address resolved",
		zap.String("address", normalized),
		zap.Float64("lat", geo.Lat),
		zap.Float64("lon", geo.Lon),
	)

	return out, nil
}

// classifyConcurrent issues both polygon lookups at once. Both depend
// only on the geocoded coordinate; the first error wins and absences
// merge independently, so the outcome matches the sequential path.
func (r *Resolver) classifyConcurrent(ctx context.Context, geo *GeoFeature) (suburb, district *string, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, ok, cerr := r.classifier.Classify(gctx, r.suburbURL, geo.Lat, geo.Lon, suburbProperty)
		if cerr != nil {
			return cerr
		}
		if ok {
			suburb = &v
		}
		return nil
	})

	g.Go(func() error {
		v, ok, cerr := r.classifier.Classify(gctx, r.districtURL, geo.Lat, geo.Lon, districtProperty)
		if cerr != nil {
			return cerr
		}
		if ok {
			district = &v
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return suburb, district, nil
}

// classifySequential runs the lookups in order: suburb first, and a
// failure there skips the district lookup entirely.
func (r *Resolver) classifySequential(ctx context.Context, geo *GeoFeature) (suburb, district *string, err error) {
	if v, ok, cerr := r.classifier.Classify(ctx, r.suburbURL, geo.Lat, geo.Lon, suburbProperty); cerr != nil {
		return nil, nil, cerr
	} else if ok {
		suburb = &v
	}

	if v, ok, cerr := r.classifier.Classify(ctx, r.districtURL, geo.Lat, geo.Lon, districtProperty); cerr != nil {
		return nil, nil, cerr
	} else if ok {
		district = &v
	}

	return suburb, district, nil
}
