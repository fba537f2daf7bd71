// middleware/errors.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/userform/httputil"
	"go.uber.org/zap"
)

// NotFound answers unmatched routes with a JSON 404. Pass it to chi's
// Router.NotFound.
func NotFound(logger *zap.Logger) http.HandlerFunc {
	return jsonRouteError(logger, http.StatusNotFound, "not_found", "no route for this path")
}

// MethodNotAllowed answers a known path with the wrong verb. Pass it to
// chi's Router.MethodNotAllowed.
func MethodNotAllowed(logger *zap.Logger) http.HandlerFunc {
	return jsonRouteError(logger, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed on this path")
}

func jsonRouteError(logger *zap.Logger, status int, code, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logger != nil {
			logger.Info(code,
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_ip", r.RemoteAddr),
			)
		}
		httputil.JSONError(w, status, code, msg)
	}
}
