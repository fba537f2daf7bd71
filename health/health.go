// health/health.go
package health

import (
	"context"
	"net/http"
	"sort"

	"github.com/dalemusser/userform/httputil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Check probes one dependency and returns nil when it is healthy.
type Check func(ctx context.Context) error

// Response is the body of GET /health.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler runs checks on every request. With no checks it is a plain
// liveness probe answering {"status":"ok"}; any failing check turns the
// answer into a 503 with status "error".
func Handler(checks map[string]Check, logger *zap.Logger) http.Handler {
	names := make([]string, 0, len(checks))
	for n := range checks {
		names = append(names, n)
	}
	sort.Strings(names)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := Response{Status: "ok"}
		status := http.StatusOK

		for _, name := range names {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(names))
			}
			check := checks[name]
			if check == nil {
				resp.Checks[name] = "ok"
				continue
			}
			if err := check(r.Context()); err != nil {
				resp.Checks[name] = "error: " + err.Error()
				resp.Status = "error"
				status = http.StatusServiceUnavailable
				if logger != nil {
					logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
				}
				continue
			}
			resp.Checks[name] = "ok"
		}

		httputil.WriteJSON(w, status, resp)
	})
}

// Mount serves Handler at GET /health.
func Mount(r chi.Router, checks map[string]Check, logger *zap.Logger) {
	r.Method(http.MethodGet, "/health", Handler(checks, logger))
}
