package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceinsight/internal/config"
	"invoiceinsight/internal/llm"
	"invoiceinsight/internal/llm/claude"
	"invoiceinsight/internal/port"
)

func newTestGenerator(serverURL string) *claude.Generator {
	return claude.NewGeneratorWithEndpoint(&config.LLMConfig{
		Provider: "claude",
		APIKey:   "test-claude-key",
		Model:    "claude-test",
	}, serverURL)
}

func TestGenerator_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-claude-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-test", reqBody["model"])
		assert.Equal(t, float64(400), reqBody["max_tokens"])
		assert.Equal(t, "be brief", reqBody["system"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "summarize", messages[0].(map[string]interface{})["content"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]interface{}{
				{"type": "text", "text": "- point one\n"},
				{"type": "text", "text": "- point two"},
			},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	g := newTestGenerator(server.URL)
	out, err := g.Generate(context.Background(), "summarize", port.GenerateOptions{System: "be brief", MaxTokens: 400})

	require.NoError(t, err)
	assert.Equal(t, "- point one\n- point two", out)
}

func TestGenerator_Generate_TruncatedAnswerIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]interface{}{{"type": "text", "text": `{"vendor": "Ac`}},
			"stop_reason": "max_tokens",
		})
	}))
	defer server.Close()

	g := newTestGenerator(server.URL)
	out, err := g.Generate(context.Background(), "x", port.GenerateOptions{MaxTokens: 10})

	require.NoError(t, err)
	assert.Equal(t, `{"vendor": "Ac`, out)
}

func TestGenerator_Generate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate"}`))
	}))
	defer server.Close()

	g := newTestGenerator(server.URL)
	_, err := g.Generate(context.Background(), "x", port.GenerateOptions{})

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
}

func TestGenerator_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	}))
	defer server.Close()

	g := newTestGenerator(server.URL)
	_, err := g.Generate(context.Background(), "x", port.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestGenerator_Generate_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	g := newTestGenerator(server.URL)
	_, err := g.Generate(context.Background(), "x", port.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
