// middleware/cors.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/userform/config"
	"github.com/go-chi/cors"
)

// CORSFromConfig applies go-chi/cors from the CORS section, or nothing when
// enable_cors is off.
func CORSFromConfig(cfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if cfg == nil || !cfg.CORS.EnableCORS {
		return passthrough
	}
	c := cfg.CORS
	return cors.Handler(cors.Options{
		AllowedOrigins:   c.CORSAllowedOrigins,
		AllowedMethods:   c.CORSAllowedMethods,
		AllowedHeaders:   c.CORSAllowedHeaders,
		ExposedHeaders:   c.CORSExposedHeaders,
		AllowCredentials: c.CORSAllowCredentials,
		MaxAge:           c.CORSMaxAge,
	})
}
