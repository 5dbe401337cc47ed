// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/studyassistant/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/studyassistant/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/studyassistant/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/studyassistant/internal/application"
	"github.com/ericfisherdev/studyassistant/internal/domain/model"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	dispatcher *application.Dispatcher
	setupErr   error
	logger     *slog.Logger
}

// NewHandler creates a Handler. When setupErr is non-nil, or dispatcher is
// nil, every page shows the configuration error and no submission reaches
// the generator.
func NewHandler(dispatcher *application.Dispatcher, setupErr error, logger *slog.Logger) *Handler {
	if dispatcher == nil && setupErr == nil {
		setupErr = application.ErrCredentialMissing
	}
	return &Handler{
		dispatcher: dispatcher,
		setupErr:   setupErr,
		logger:     logger,
	}
}

// Index renders the page with all three panels idle.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if h.setupErr != nil {
		h.renderConfigError(w, r)
		return
	}

	token := csrfToken(w, r)
	active := model.PanelID(r.URL.Query().Get("panel"))
	h.render(w, r, http.StatusOK, toPageViewModel(active, nil, token))
}

// SubmitPanel validates the form, dispatches the panel's input and re-renders
// the page with the panel's output region filled in.
func (h *Handler) SubmitPanel(w http.ResponseWriter, r *http.Request) {
	if h.setupErr != nil {
		h.renderConfigError(w, r)
		return
	}

	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	panelID := model.PanelID(r.PathValue("panel"))
	input := r.PostFormValue("input")

	outcome, err := h.dispatcher.Submit(r.Context(), panelID, input)
	if errors.Is(err, application.ErrUnknownPanel) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("failed to dispatch panel submission", "panel", panelID, "error", err)
		http.Error(w, "service unavailable, please try again", http.StatusServiceUnavailable)
		return
	}

	token := csrfToken(w, r)
	h.render(w, r, http.StatusOK, toPageViewModel(panelID, &outcome, token))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page vm.PageViewModel) {
	h.writeComponent(w, r, status, templates.Layout(page.Title, pages.Index(page)))
}

func (h *Handler) renderConfigError(w http.ResponseWriter, r *http.Request) {
	page := vm.ErrorPageViewModel{
		Title:   pageTitle,
		Message: "Error configuring Gemini API: " + h.setupErr.Error(),
		Footer:  pageFooter,
	}
	h.writeComponent(w, r, http.StatusServiceUnavailable, templates.Layout(page.Title, pages.ConfigError(page)))
}

func (h *Handler) writeComponent(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}
