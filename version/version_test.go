package version

import (
	"net/http"
	"runtime"
	"testing"

	"github.com/dalemusser/userform/internal/webtest"
	"github.com/go-chi/chi/v5"
)

func TestMount(t *testing.T) {
	r := chi.NewRouter()
	Mount(r)

	var got Info
	webtest.New(t).Get("/version").Do(r).Status(http.StatusOK).JSON(&got)
	if got.Version != Version || got.GoVersion != runtime.Version() {
		t.Errorf("info = %+v", got)
	}
}

func TestString(t *testing.T) {
	v, c, b := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = v, c, b })

	Version = "dev"
	if got := String(); got != "dev" {
		t.Errorf("String() = %q", got)
	}
	Version, Commit, BuildTime = "1.2.0", "abc123", "2026-01-01"
	if got := String(); got != "1.2.0 (abc123, built 2026-01-01)" {
		t.Errorf("String() = %q", got)
	}
}
