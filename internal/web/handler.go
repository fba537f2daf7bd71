// Package web serves the sign-up form as an HTML page and as a JSON API.
package web

import (
	"embed"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/userform/config"
	"github.com/dalemusser/userform/httputil"
	"github.com/dalemusser/userform/internal/formctl"
	"github.com/dalemusser/userform/internal/userform"
	"github.com/dalemusser/userform/metrics"
	"github.com/dalemusser/userform/middleware"
	"github.com/dalemusser/userform/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const (
	formPage  = "user_form"
	pageTitle = "Cadastro de usuário"

	// Submission channels, used as the metrics label.
	channelForm = "form"
	channelAPI  = "api"

	msgInvalid = "Dados inválidos"

	// fieldOutput is the hidden input that carries the last successful
	// output from one post to the next.
	fieldOutput = "output"
)

// Handler owns the form page and the JSON endpoint. Each request gets its
// own formctl.Controller; the page carries the last successful output in a
// hidden field so the server keeps no state between requests.
type Handler struct {
	schema *userform.Schema
	views  *templates.Engine
	logger *zap.Logger
}

// New compiles the embedded templates.
func New(schema *userform.Schema, logger *zap.Logger) (*Handler, error) {
	if schema == nil {
		return nil, errors.New("web: schema is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	views := templates.New(logger)
	views.Add(templates.Set{Name: templates.SharedSet, FS: templateFS, Patterns: []string{"templates/layout.gohtml"}})
	views.Add(templates.Set{Name: "userform", FS: templateFS, Patterns: []string{"templates/form.gohtml"}})
	if err := views.Boot(); err != nil {
		return nil, fmt.Errorf("boot templates: %w", err)
	}

	return &Handler{schema: schema, views: views, logger: logger}, nil
}

// Mount attaches GET /, POST / and POST /api/users. Both submit routes share
// one per-client rate limit; CORS, when enabled, applies to the API only.
func (h *Handler) Mount(r chi.Router, cfg *config.CoreConfig) {
	limit := middleware.RateLimitFromConfig(cfg)

	r.Get("/", h.showForm)
	r.With(limit).Post("/", h.submitForm)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.CORSFromConfig(cfg))
		api.With(limit, middleware.RequireJSON).Post("/users", h.createUser)
	})
}

// pageData feeds form.gohtml.
type pageData struct {
	Title  string
	Values map[string]string
	Errors map[string]string
	Output string
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, formPage, pageData{
		Title:  pageTitle,
		Values: map[string]string{},
	})
}

func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badBody(w, err)
		return
	}

	ctl := formctl.New(h.schema, h.logger)
	ctl.Restore(r.PostForm.Get(fieldOutput))
	for _, f := range userform.Fields {
		if err := ctl.Set(f, r.PostForm.Get(f)); err != nil {
			h.logger.Error("set form field", zap.String("field", f), zap.Error(err))
		}
	}
	res := ctl.Submit()
	observe(channelForm, res)

	data := pageData{
		Title: pageTitle,
		// The password is never echoed back into the page.
		Values: map[string]string{
			userform.FieldName:  ctl.Value(userform.FieldName),
			userform.FieldEmail: ctl.Value(userform.FieldEmail),
		},
		Errors: ctl.Errors(),
		Output: ctl.Output(),
	}
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	h.views.Render(w, status, formPage, data)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var in userform.UserInput
	if err := httputil.BindJSON(r, &in); err != nil {
		h.badBody(w, err)
		return
	}

	res := formctl.New(h.schema, h.logger).SubmitInput(in)
	observe(channelAPI, res)

	if !res.OK() {
		httputil.ValidationError(w, msgInvalid, res.Errors.Map())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res.Record)
}

func (h *Handler) badBody(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.Is(err, httputil.ErrBodyTooLarge) || errors.As(err, &tooLarge) {
		httputil.JSONError(w, http.StatusRequestEntityTooLarge, "request_too_large", httputil.ErrBodyTooLarge.Error())
		return
	}
	h.logger.Debug("rejected request body", zap.Error(err))
	httputil.JSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
}

func observe(channel string, res formctl.Result) {
	failed := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		failed = append(failed, e.Field)
	}
	metrics.ObserveSubmission(channel, failed...)
}
