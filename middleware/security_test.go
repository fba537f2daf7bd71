package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/userform/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders_Defaults(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureDefaults()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"X-XSS-Protection", "1; mode=block"},
		{"Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'"},
		{"Permissions-Policy", ""},
	}
	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}

	if hsts := rec.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Errorf("HSTS should not be set for HTTP requests, got %q", hsts)
	}
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	opts := DefaultSecurityHeadersOptions()
	opts.HSTSPreload = true
	handler := SecurityHeaders(opts)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	req.TLS = &tls.ConnectionState{}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	want := "max-age=31536000; includeSubDomains; preload"
	if got := rec.Header().Get("Strict-Transport-Security"); got != want {
		t.Errorf("HSTS = %q, want %q", got, want)
	}
}

func TestSecurityHeadersFromConfig(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		cfg := &config.CoreConfig{}
		cfg.Security.EnableSecurityHeaders = true
		cfg.Security.XFrameOptions = "SAMEORIGIN"

		rec := httptest.NewRecorder()
		SecurityHeadersFromConfig(cfg)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := rec.Header().Get("X-Frame-Options"); got != "SAMEORIGIN" {
			t.Errorf("X-Frame-Options = %q", got)
		}
		if got := rec.Header().Get("X-Content-Type-Options"); got != "" {
			t.Errorf("unset option should not be sent, got %q", got)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := &config.CoreConfig{}
		cfg.Security.XFrameOptions = "DENY"

		rec := httptest.NewRecorder()
		SecurityHeadersFromConfig(cfg)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got := rec.Header().Get("X-Frame-Options"); got != "" {
			t.Errorf("X-Frame-Options should not be set when disabled, got %q", got)
		}
	})

	t.Run("nil config", func(t *testing.T) {
		rec := httptest.NewRecorder()
		SecurityHeadersFromConfig(nil)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
