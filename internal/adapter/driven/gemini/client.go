// Package gemini implements the TextGenerator port against the Gemini
// generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/studyassistant/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TextGenerator = (*Client)(nil)

const (
	// DefaultBaseURL is the public Gemini API endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.0-flash"

	// DefaultMaxResponseBytes caps how much of a response body is read.
	DefaultMaxResponseBytes = 8 << 20

	apiKeyHeader = "x-goog-api-key"
)

// ErrMissingAPIKey is returned by NewClient when the API key is empty.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	// MaxResponseBytes bounds the response body; larger bodies fail the call.
	MaxResponseBytes int64
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls a single Gemini model with a fixed API key.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	maxBody int64
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client for the given API key.
func NewClient(apiKey string, opts Options) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	maxBody := opts.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxResponseBytes
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		maxBody: maxBody,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// Model returns the model identifier requests are sent to.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  usageMetadata   `json:"usageMetadata"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends prompt as a single user turn and returns the concatenated
// text of the first candidate. It makes exactly one HTTP request.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	c.logger.DebugContext(ctx, "sending generate request", "model", c.model, "prompt_chars", len(prompt))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if int64(len(raw)) > c.maxBody {
		return "", fmt.Errorf("response exceeds %d bytes", c.maxBody)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, errorMessage(raw))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(out.Candidates) == 0 {
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", out.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates in response")
	}

	c.logger.DebugContext(ctx, "generate token usage",
		"model", c.model,
		"input_tokens", out.UsageMetadata.PromptTokenCount,
		"output_tokens", out.UsageMetadata.CandidatesTokenCount,
		"total_tokens", out.UsageMetadata.TotalTokenCount,
	)

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty candidate (finish reason %s)", out.Candidates[0].FinishReason)
	}

	return text.String(), nil
}

// errorMessage extracts the provider's message from an error body, falling
// back to the raw body.
func errorMessage(raw []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error.Message != "" {
		if env.Error.Status != "" {
			return env.Error.Status + ": " + env.Error.Message
		}
		return env.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
