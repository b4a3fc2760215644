package generative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foxseedlab/videoqa/internal/generative"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *OpenAIBackend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	b, err := NewOpenAIBackend("sk-test", server.URL+"/v1", "gpt-3.5-turbo")
	require.NoError(t, err)
	return b
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": "invalid_request_error"},
	})
}

func TestNewOpenAIBackend_MissingKey(t *testing.T) {
	_, err := NewOpenAIBackend("  ", "", "gpt-3.5-turbo")
	require.ErrorIs(t, err, generative.ErrAuthMissing)
}

func TestComplete_Success(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" Cats appear at 0:03. "},"finish_reason":"stop"}]}`))
	})

	answer, err := b.Complete(context.Background(), generative.CompletionRequest{
		SystemInstruction: "system",
		UserMessage:       "user",
		MaxOutputTokens:   500,
		Temperature:       0.7,
	})
	require.NoError(t, err)
	require.Equal(t, "Cats appear at 0:03.", answer)
	require.Equal(t, "gpt-3.5-turbo", got.Model)
	require.Equal(t, 500, got.MaxTokens)
	require.InDelta(t, 0.7, got.Temperature, 0.001)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "system", got.Messages[0].Role)
	require.Equal(t, "user", got.Messages[1].Content)
}

func TestComplete_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		kind   error
	}{
		{"unauthorized", http.StatusUnauthorized, generative.ErrAuth},
		{"forbidden", http.StatusForbidden, generative.ErrAuth},
		{"rate limited", http.StatusTooManyRequests, generative.ErrQuota},
		{"server error", http.StatusBadGateway, generative.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, tt.status, "nope")
			})
			_, err := b.Complete(context.Background(), generative.CompletionRequest{UserMessage: "q"})
			require.ErrorIs(t, err, generative.ErrCallFailed)
			require.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestComplete_EmptyChoicesIsMalformed(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	})
	_, err := b.Complete(context.Background(), generative.CompletionRequest{UserMessage: "q"})
	require.ErrorIs(t, err, generative.ErrMalformedResponse)
}

func TestComplete_TimeoutIsNetwork(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := b.Complete(ctx, generative.CompletionRequest{UserMessage: "q"})
	require.ErrorIs(t, err, generative.ErrNetwork)
	require.False(t, errors.Is(err, generative.ErrAuth))
}
