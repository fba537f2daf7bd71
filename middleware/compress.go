// middleware/compress.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/userform/config"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// compressibleTypes covers everything this service writes.
var compressibleTypes = []string{"text/html", "text/css", "application/json"}

// CompressFromConfig gzips/deflates responses at cfg.CompressionLevel when
// enable_compression is on. Out-of-range levels are clamped; config
// validation rejects them first.
func CompressFromConfig(cfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if cfg == nil || !cfg.EnableCompression {
		return passthrough
	}
	return chimw.Compress(clampLevel(cfg.CompressionLevel), compressibleTypes...)
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 9:
		return 9
	}
	return level
}
