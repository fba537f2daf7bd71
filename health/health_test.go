package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dalemusser/userform/internal/webtest"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
)

func TestHandler_Liveness(t *testing.T) {
	var got Response
	webtest.New(t).Get("/").Do(Handler(nil, nil)).
		Status(http.StatusOK).
		JSON(&got)

	if diff := cmp.Diff(Response{Status: "ok"}, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_FailingCheck(t *testing.T) {
	checks := map[string]Check{
		"templates": func(context.Context) error { return nil },
		"messages":  func(context.Context) error { return errors.New("missing") },
	}
	var got Response
	webtest.New(t).Get("/").Do(Handler(checks, nil)).
		Status(http.StatusServiceUnavailable).
		JSON(&got)

	want := Response{
		Status: "error",
		Checks: map[string]string{"templates": "ok", "messages": "error: missing"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestMount(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, nil, nil)
	webtest.New(t).Get("/health").Do(r).Status(http.StatusOK).BodyContains(`"status":"ok"`)
}
