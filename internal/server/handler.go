// Package server exposes the address-resolution pipeline over HTTP: a
// single lookup endpoint plus a liveness probe, with every outcome
// rendered as a JSON body and a mapped status code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xxmmxw/Address-lookup/internal/resolver"
	"github.com/xxmmxw/Address-lookup/pkg/arcgis"
)

// AddressResolver resolves a raw address string to its full result.
type AddressResolver interface {
	Resolve(ctx context.Context, address string) (*resolver.ResolvedAddress, error)
}

// NewHandler builds the HTTP router over the given resolver.
func NewHandler(res AddressResolver) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(accessLog)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", handleHealth)
	r.Get("/lookup", handleLookup(res))

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleLookup(res AddressResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := r.URL.Query().Get("address")
		if strings.TrimSpace(address) == "" {
			writeError(w, http.StatusBadRequest, "Missing required query parameter: address")
			return
		}

		result, err := res.Resolve(r.Context(), address)
		if err != nil {
			status, msg := mapError(err)
			if status >= http.StatusInternalServerError {
				zap.L().Warn("lookup failed",
					zap.Int("status", status),
					zap.Error(err),
				)
			}
			writeError(w, status, msg)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// mapError converts a pipeline failure into a response status and a
// coarse, human-readable message. Raw upstream bodies never reach the
// caller beyond the snippet the query client already truncated.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, resolver.ErrBlankAddress):
		return http.StatusBadRequest, "Missing required query parameter: address"
	case errors.Is(err, resolver.ErrAddressNotFound):
		return http.StatusNotFound, "Address not found"
	}

	var qe *arcgis.QueryError
	if errors.As(err, &qe) {
		if qe.Kind == arcgis.KindTimeout {
			return http.StatusGatewayTimeout, "Upstream timeout"
		}
		return http.StatusBadGateway, fmt.Sprintf("Upstream or parse error: %s", qe.Kind)
	}

	return http.StatusBadGateway, "Upstream or parse error: internal"
}

type requestIDKey struct{}

// RequestIDFrom returns the request ID attached by the middleware, or ""
// outside a request scope.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestID attaches a per-request ID, honoring one supplied by the
// caller, and echoes it in the X-Request-Id response header. chi's stock
// RequestID middleware generates host-prefixed counters and never echoes
// the header; correlation here needs a UUID visible to the caller.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLog emits one structured log line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", RequestIDFrom(r.Context())),
		)
	})
}

// recoverer turns a handler panic into the same envelope as any other
// unclassified failure. chi's stock Recoverer replies with a plain-text
// 500; every error leaving this service must be the JSON envelope with
// the 502 unclassified-failure mapping.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				zap.L().Error("panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
				)
				writeError(w, http.StatusBadGateway, "Upstream or parse error: internal")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// writeJSON serializes v as the response body. If serialization itself
// fails it falls back to a fixed 500 envelope rather than propagating.
func writeJSON(w http.ResponseWriter, status int, v any) {
	buf, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("response serialization failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"serialization"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
