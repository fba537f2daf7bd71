// router/router.go
package router

import (
	"github.com/dalemusser/userform/config"
	"github.com/dalemusser/userform/logging"
	"github.com/dalemusser/userform/metrics"
	"github.com/dalemusser/userform/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// New returns a chi.Router with the shared middleware stack: request ID,
// real IP, panic recovery, body limit, security headers, compression,
// request metrics (when enabled), access logging and JSON 404/405.
// Routes, health, version and /metrics are mounted by the caller.
func New(cfg *config.CoreConfig, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Recoverer(logger))
	r.Use(middleware.LimitBodySize(cfg.MaxRequestBodyBytes))
	r.Use(middleware.SecurityHeadersFromConfig(cfg))
	r.Use(middleware.CompressFromConfig(cfg))
	if cfg.EnableMetrics {
		r.Use(metrics.HTTPMetrics)
	}
	r.Use(logging.RequestLogger(logger))

	r.NotFound(middleware.NotFound(logger))
	r.MethodNotAllowed(middleware.MethodNotAllowed(logger))

	return r
}
