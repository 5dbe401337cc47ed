package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", Options{BaseURL: srv.URL, Model: "gemini-test", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	client, err := NewClient("   ", Options{})

	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient("k", Options{})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.Model())
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}

func TestGenerate_OversizedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"candidates": [{"content": {"parts": [{"text": "`+strings.Repeat("a", 256)+`"}]}}]}`)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", Options{BaseURL: srv.URL, MaxResponseBytes: 64})
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "prompt")

	assert.Empty(t, text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response exceeds 64 bytes")
}

func TestGenerate_Success(t *testing.T) {
	var gotBody generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		writeBody(w, http.StatusOK, `{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "## Fix\n"}, {"text": "Divide by a non-zero value."}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 8, "totalTokenCount": 20}
		}`)
	})

	text, err := client.Generate(context.Background(), "Debug this")

	require.NoError(t, err)
	assert.Equal(t, "## Fix\nDivide by a non-zero value.", text)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "Debug this", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerate_ReturnsTextVerbatim(t *testing.T) {
	const text = "  leading spaces\n\n*markdown* <b>kept</b>\n\n"
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		resp := generateResponse{Candidates: []candidate{{Content: content{Parts: []part{{Text: text}}}}}}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	})

	got, err := client.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestGenerate_APIErrorUsesEnvelopeMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusTooManyRequests, `{"error": {"code": 429, "message": "Quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`)
	})

	_, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Equal(t, "API error 429: RESOURCE_EXHAUSTED: Quota exceeded", err.Error())
}

func TestGenerate_APIErrorRawBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusBadGateway, "Bad Gateway\n")
	})

	_, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Equal(t, "API error 502: Bad Gateway", err.Error())
}

func TestGenerate_InvalidJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, "not valid json at all")
	})

	_, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}

func TestGenerate_NoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"candidates": []}`)
	})

	_, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates in response")
}

func TestGenerate_BlockedPrompt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"promptFeedback": {"blockReason": "SAFETY"}}`)
	})

	_, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Equal(t, "prompt blocked: SAFETY", err.Error())
}

func TestGenerate_EmptyCandidate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"candidates": [{"content": {"parts": []}, "finishReason": "MAX_TOKENS"}]}`)
	})

	_, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
}

func TestGenerate_NoRetryOnFailure(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeBody(w, http.StatusServiceUnavailable, "unavailable")
	})

	_, err := client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerate_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, "p")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("k", Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "http request")
}
