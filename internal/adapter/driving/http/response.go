package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/studyassistant/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// generateRequest is the body of POST /api/v1/panels/{panel}/generate.
type generateRequest struct {
	Input string `json:"input"`
}

// GenerateResponse is the JSON representation of a panel outcome.
type GenerateResponse struct {
	Panel   string `json:"panel"`
	State   string `json:"state"`
	Text    string `json:"text,omitempty"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PanelResponse describes one panel for API clients.
type PanelResponse struct {
	ID          string `json:"id"`
	Header      string `json:"header"`
	Description string `json:"description"`
	InputLabel  string `json:"input_label"`
	MultiLine   bool   `json:"multiline"`
	Placeholder string `json:"placeholder"`
}

// InteractionResponse is the JSON representation of an interaction log entry.
type InteractionResponse struct {
	ID           string `json:"id"`
	Panel        string `json:"panel"`
	InputChars   int    `json:"input_chars"`
	Outcome      string `json:"outcome"`
	ErrorMessage string `json:"error_message,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
	CreatedAt    string `json:"created_at"`
}

// HealthResponse reports process liveness and whether a generator is configured.
type HealthResponse struct {
	Status         string `json:"status"`
	GeneratorReady bool   `json:"generator_ready"`
}

func toGenerateResponse(o model.Outcome) GenerateResponse {
	return GenerateResponse{
		Panel:   string(o.Panel),
		State:   string(o.State),
		Text:    o.Text,
		Warning: o.Warning,
		Error:   o.Error,
	}
}

func toPanelResponse(p model.Panel) PanelResponse {
	return PanelResponse{
		ID:          string(p.ID),
		Header:      p.Header,
		Description: p.Description,
		InputLabel:  p.InputLabel,
		MultiLine:   p.Input == model.InputMultiLine,
		Placeholder: p.Placeholder,
	}
}

func toInteractionResponse(in model.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:           in.ID,
		Panel:        string(in.Panel),
		InputChars:   in.InputChars,
		Outcome:      string(in.Outcome),
		ErrorMessage: in.ErrorMessage,
		DurationMS:   in.Duration.Milliseconds(),
		CreatedAt:    in.CreatedAt.UTC().Format(time.RFC3339),
	}
}
