// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/ericfisherdev/studyassistant/internal/application"
	"github.com/ericfisherdev/studyassistant/internal/domain/model"
	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

const (
	defaultInteractionLimit = 50
	maxInteractionLimit     = 500
	maxRequestBodyBytes     = 1 << 20
)

// Handler is the HTTP driving adapter that serves the JSON API.
type Handler struct {
	dispatcher   *application.Dispatcher
	setupErr     error
	interactions driven.InteractionStore
	logger       *slog.Logger
}

// NewHandler creates a Handler. dispatcher is nil when no credential could be
// loaded; setupErr then explains why. interactions may be nil.
func NewHandler(dispatcher *application.Dispatcher, setupErr error, interactions driven.InteractionStore, logger *slog.Logger) *Handler {
	if dispatcher == nil && setupErr == nil {
		setupErr = application.ErrCredentialMissing
	}
	return &Handler{
		dispatcher:   dispatcher,
		setupErr:     setupErr,
		interactions: interactions,
		logger:       logger,
	}
}

// RegisterAPIRoutes registers all /api/v1 routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/panels", h.ListPanels)
	mux.HandleFunc("POST /api/v1/panels/{panel}/generate", h.Generate)
	mux.HandleFunc("GET /api/v1/interactions", h.ListInteractions)
}

// Health reports that the process is serving. It stays 200 when no
// credential is configured so the container is not restarted in a loop.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", GeneratorReady: h.setupErr == nil})
}

// ListPanels returns the panel descriptors in display order.
func (h *Handler) ListPanels(w http.ResponseWriter, _ *http.Request) {
	panels := model.Panels()
	resp := make([]PanelResponse, 0, len(panels))
	for _, p := range panels {
		resp = append(resp, toPanelResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Generate dispatches one panel submission and returns its outcome.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.setupErr != nil {
		writeError(w, http.StatusServiceUnavailable, h.setupErr.Error())
		return
	}

	// Browsers can post text/plain cross-site without a preflight.
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	panelID := model.PanelID(r.PathValue("panel"))
	outcome, err := h.dispatcher.Submit(r.Context(), panelID, req.Input)
	if errors.Is(err, application.ErrUnknownPanel) {
		writeError(w, http.StatusNotFound, "panel not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to dispatch generate request", "panel", panelID, "error", err)
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	status := http.StatusOK
	switch {
	case outcome.Warning != "":
		status = http.StatusUnprocessableEntity
	case outcome.State == model.StateError:
		status = http.StatusBadGateway
	}

	writeJSON(w, status, toGenerateResponse(outcome))
}

// ListInteractions returns the most recent interaction log entries.
// The optional limit query parameter defaults to 50 and is capped at 500.
func (h *Handler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	if h.interactions == nil {
		writeJSON(w, http.StatusOK, []InteractionResponse{})
		return
	}

	limit := defaultInteractionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxInteractionLimit)
	}

	interactions, err := h.interactions.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list interactions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]InteractionResponse, 0, len(interactions))
	for _, in := range interactions {
		resp = append(resp, toInteractionResponse(in))
	}
	writeJSON(w, http.StatusOK, resp)
}
