package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/studyassistant/internal/adapter/driving/http"
	"github.com/ericfisherdev/studyassistant/internal/application"
	"github.com/ericfisherdev/studyassistant/internal/domain/model"
	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockGenerator struct {
	mu      sync.Mutex
	prompts []string
	text    string
	err     error
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	return m.text, m.err
}

type mockInteractionStore struct {
	interactions []model.Interaction
	err          error
	gotLimit     int
}

func (m *mockInteractionStore) Record(_ context.Context, in model.Interaction) error {
	m.interactions = append([]model.Interaction{in}, m.interactions...)
	return nil
}

func (m *mockInteractionStore) ListRecent(_ context.Context, limit int) ([]model.Interaction, error) {
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.interactions) {
		limit = len(m.interactions)
	}
	return m.interactions[:limit], nil
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupMux(gen *mockGenerator, store *mockInteractionStore, setupErr error) http.Handler {
	var interactions driven.InteractionStore
	if store != nil {
		interactions = store
	}
	var dispatcher *application.Dispatcher
	if gen != nil {
		dispatcher = application.NewDispatcher(gen, interactions, 1, time.Minute, discardLogger())
	}
	h := httphandler.NewHandler(dispatcher, setupErr, interactions, discardLogger())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)
	return httphandler.ApplyMiddleware(mux, discardLogger())
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- Tests ---

func TestHealth_Ready(t *testing.T) {
	mux := setupMux(&mockGenerator{}, nil, nil)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[httphandler.HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.GeneratorReady)
}

func TestHealth_NoCredentialStillOK(t *testing.T) {
	mux := setupMux(nil, nil, application.ErrCredentialMissing)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[httphandler.HealthResponse](t, rec).GeneratorReady)
}

func TestListPanels(t *testing.T) {
	mux := setupMux(&mockGenerator{}, nil, nil)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/panels", "")

	require.Equal(t, http.StatusOK, rec.Code)
	panels := decode[[]httphandler.PanelResponse](t, rec)
	require.Len(t, panels, 3)
	assert.Equal(t, "debugger", panels[0].ID)
	assert.True(t, panels[0].MultiLine)
	assert.Equal(t, "topic", panels[1].ID)
	assert.False(t, panels[1].MultiLine)
	assert.Equal(t, "concept", panels[2].ID)
}

func TestGenerate_Success(t *testing.T) {
	gen := &mockGenerator{text: "A p-value is...\n"}
	store := &mockInteractionStore{}
	mux := setupMux(gen, store, nil)

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/panels/concept/generate", `{"input":"P-value"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[httphandler.GenerateResponse](t, rec)
	assert.Equal(t, "concept", resp.Panel)
	assert.Equal(t, "result", resp.State)
	assert.Equal(t, "A p-value is...\n", resp.Text)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "'P-value'")
	assert.Len(t, store.interactions, 1)
}

func TestGenerate_EmptyInput(t *testing.T) {
	gen := &mockGenerator{text: "x"}
	mux := setupMux(gen, nil, nil)

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/panels/topic/generate", `{"input":""}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[httphandler.GenerateResponse](t, rec)
	assert.Equal(t, "Please enter a topic to explain.", resp.Warning)
	assert.Empty(t, gen.prompts)
}

func TestGenerate_GeneratorFailure(t *testing.T) {
	gen := &mockGenerator{err: errors.New("API error 503: overloaded")}
	mux := setupMux(gen, nil, nil)

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/panels/topic/generate", `{"input":"Entropy"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decode[httphandler.GenerateResponse](t, rec)
	assert.Equal(t, "error", resp.State)
	assert.Equal(t, "An error occurred while explaining the topic: API error 503: overloaded", resp.Error)
}

func TestGenerate_UnknownPanel(t *testing.T) {
	gen := &mockGenerator{}
	mux := setupMux(gen, nil, nil)

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/panels/poetry/generate", `{"input":"x"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, gen.prompts)
}

func TestGenerate_InvalidBody(t *testing.T) {
	gen := &mockGenerator{}
	mux := setupMux(gen, nil, nil)

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/panels/topic/generate", `{"input":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gen.prompts)
}

func TestGenerate_RequiresJSONContentType(t *testing.T) {
	for _, contentType := range []string{"text/plain", "application/x-www-form-urlencoded", ""} {
		t.Run(contentType, func(t *testing.T) {
			gen := &mockGenerator{text: "x"}
			mux := setupMux(gen, nil, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/panels/topic/generate", strings.NewReader(`{"input":"Entropy"}`))
			if contentType != "" {
				req.Header.Set("Content-Type", contentType)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
			assert.Empty(t, gen.prompts)
		})
	}
}

func TestGenerate_AcceptsJSONWithCharset(t *testing.T) {
	gen := &mockGenerator{text: "x"}
	mux := setupMux(gen, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/panels/topic/generate", strings.NewReader(`{"input":"Entropy"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, gen.prompts, 1)
}

func TestGenerate_NoCredential(t *testing.T) {
	mux := setupMux(nil, nil, application.ErrCredentialMissing)

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/panels/topic/generate", `{"input":"Entropy"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "google API key not found")
}

func TestListInteractions(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &mockInteractionStore{interactions: []model.Interaction{{
		ID:         "id-1",
		Panel:      model.PanelDebugger,
		InputChars: 19,
		Outcome:    model.InteractionSuccess,
		Duration:   2 * time.Second,
		CreatedAt:  created,
	}}}
	mux := setupMux(&mockGenerator{}, store, nil)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/interactions", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50, store.gotLimit)
	resp := decode[[]httphandler.InteractionResponse](t, rec)
	require.Len(t, resp, 1)
	assert.Equal(t, httphandler.InteractionResponse{
		ID:         "id-1",
		Panel:      "debugger",
		InputChars: 19,
		Outcome:    "success",
		DurationMS: 2000,
		CreatedAt:  "2026-03-01T10:00:00Z",
	}, resp[0])
}

func TestListInteractions_LimitParsing(t *testing.T) {
	store := &mockInteractionStore{}
	mux := setupMux(&mockGenerator{}, store, nil)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/interactions?limit=10000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500, store.gotLimit)

	rec = doRequest(t, mux, http.MethodGet, "/api/v1/interactions?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInteractions_StoreError(t *testing.T) {
	store := &mockInteractionStore{err: errors.New("database is locked")}
	mux := setupMux(&mockGenerator{}, store, nil)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/interactions", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddleware_AssignsRequestID(t *testing.T) {
	mux := setupMux(&mockGenerator{}, nil, nil)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/health", "")

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMiddleware_PropagatesRequestID(t *testing.T) {
	mux := setupMux(&mockGenerator{}, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestMiddleware_RecoversPanic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	handler := httphandler.ApplyMiddleware(mux, discardLogger())

	rec := doRequest(t, handler, http.MethodGet, "/boom", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestMiddleware_ReplacesOversizedRequestID(t *testing.T) {
	var seen string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /id", func(_ http.ResponseWriter, r *http.Request) {
		seen = httphandler.RequestID(r.Context())
	})
	handler := httphandler.ApplyMiddleware(mux, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}
