package templates

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"shared/layout.gohtml": {Data: []byte(
			`{{ define "layout" }}<html><title>{{ .Title }}</title><body>{{ template "content" . }}</body></html>{{ end }}`)},
		"pages/a.gohtml": {Data: []byte(
			`{{ define "page_a" }}{{ template "layout" . }}{{ end }}{{ define "content" }}A:{{ .Body }}{{ end }}`)},
		"pages/b.gohtml": {Data: []byte(
			`{{ define "page_b" }}{{ template "layout" . }}{{ end }}{{ define "content" }}B:{{ fieldError .Errors "email" }}{{ end }}`)},
	}
}

func bootEngine(t *testing.T) *Engine {
	t.Helper()
	fsys := testFS()
	e := New(nil)
	e.Add(Set{Name: SharedSet, FS: fsys, Patterns: []string{"shared/*.gohtml"}})
	e.Add(Set{Name: "pages", FS: fsys, Patterns: []string{"pages/*.gohtml"}})
	if err := e.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	return e
}

func TestEngine_ContentIsPerPage(t *testing.T) {
	e := bootEngine(t)

	var a bytes.Buffer
	if err := e.Execute(&a, "page_a", map[string]any{"Title": "T", "Body": "<b>"}); err != nil {
		t.Fatal(err)
	}
	if want := "<html><title>T</title><body>A:&lt;b&gt;</body></html>"; a.String() != want {
		t.Errorf("page_a = %q, want %q", a.String(), want)
	}

	var b bytes.Buffer
	data := map[string]any{"Title": "T", "Errors": map[string]string{"email": "bad"}}
	if err := e.Execute(&b, "page_b", data); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "B:bad") {
		t.Errorf("page_b = %q", b.String())
	}
}

func TestEngine_BootRequiresShared(t *testing.T) {
	e := New(nil)
	e.Add(Set{Name: "pages", FS: testFS(), Patterns: []string{"pages/*.gohtml"}})
	if err := e.Boot(); err == nil {
		t.Fatal("expected error without a shared set")
	}
}

func TestEngine_Render(t *testing.T) {
	e := bootEngine(t)

	rec := httptest.NewRecorder()
	e.Render(rec, http.StatusUnprocessableEntity, "page_a", map[string]any{"Title": "x"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	rec = httptest.NewRecorder()
	e.Render(rec, http.StatusOK, "missing", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("missing template status = %d, want 500", rec.Code)
	}
}
