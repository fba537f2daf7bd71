package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/dalemusser/userform/config"
	"go.uber.org/zap"
)

func TestIsValidHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"example.com", true},
		{"example.com:8443", true},
		{"localhost", true},
		{"[::1]", true},
		{"[::1]:8080", true},
		{"[fe80::1%eth0]:443", true},
		{"", false},
		{"example.com:0", false},
		{"example.com:70000", false},
		{"example.com:abc", false},
		{"evil.com\r\nSet-Cookie: x", false},
		{"http://evil.com", false},
		{"/evil", false},
		{"user@evil.com", false},
		{"[zz::1]", false},
		{"[::1", false},
	}
	for _, tt := range tests {
		if got := isValidHost(tt.host); got != tt.want {
			t.Errorf("isValidHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestRedirectToHTTPS(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/users?x=1", nil)
	redirectToHTTPS().ServeHTTP(rec, req)

	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "https://example.com/api/users?x=1" {
		t.Errorf("Location = %q", got)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "bad host"
	redirectToHTTPS().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad host status = %d, want 400", rec.Code)
	}
}

func TestCheckTLSFiles(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(cert, []byte("cert"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(key, []byte("key"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := checkTLSFiles(cert, key); err != nil {
		t.Fatalf("valid files: %v", err)
	}
	if err := checkTLSFiles(cert, filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("expected error for missing key")
	}
	if err := checkTLSFiles(dir, key); err == nil {
		t.Error("expected error for directory cert path")
	}

	if runtime.GOOS == "windows" {
		return
	}
	if err := os.Chmod(key, 0o644); err != nil {
		t.Fatal(err)
	}
	var perm *permissionError
	if err := checkTLSFiles(cert, key); !errors.As(err, &perm) {
		t.Errorf("err = %v, want permissionError", err)
	}
}

func TestListenAndServeWithContext_HTTP(t *testing.T) {
	cfg := &config.CoreConfig{}
	cfg.HTTP.HTTPPort = 0 // any free port
	cfg.HTTP.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServeWithContext(ctx, cfg, http.NotFoundHandler(), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestListenAndServeWithContext_NilArgs(t *testing.T) {
	if err := ListenAndServeWithContext(context.Background(), nil, http.NotFoundHandler(), nil); err == nil {
		t.Error("expected error for nil config")
	}
	if err := ListenAndServeWithContext(context.Background(), &config.CoreConfig{}, nil, nil); err == nil {
		t.Error("expected error for nil handler")
	}
}
