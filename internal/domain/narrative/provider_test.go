package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/core/apperror"
)

func chatServer(t *testing.T, status int, body map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.InDelta(t, 0.2, req.Temperature, 0.0001)
		assert.Equal(t, 4000, req.MaxTokens)
		require.Len(t, req.Messages, 1)

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestChatProvider_Generate(t *testing.T) {
	srv := chatServer(t, http.StatusOK, map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": "analysis text"}},
		},
	})
	defer srv.Close()

	p := NewOpenAI("test-key", "", srv.URL)
	text, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "analysis text", text)
}

func TestChatProvider_ReasoningFooter(t *testing.T) {
	srv := chatServer(t, http.StatusOK, map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{
				"content":           "deep analysis",
				"reasoning_content": "chain of thought",
			}},
		},
	})
	defer srv.Close()

	p := NewDeepSeek("test-key", "", srv.URL)
	text, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Contains(t, text, "deep analysis")
	assert.Contains(t, text, "التحليل المتعمق")
	assert.NotContains(t, text, "chain of thought", "raw reasoning stays out of the narrative")
}

func TestChatProvider_UpstreamError(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, map[string]any{"error": "rate limited"})
	defer srv.Close()

	p := NewOpenAI("test-key", "", srv.URL)
	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, apperror.IsExternalService(err))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	require.NoError(t, err)
	assert.Nil(t, p, "missing key disables the provider")

	p, err = NewProvider(Config{Provider: "deepseek", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "deepseek", p.Name())

	p, err = NewProvider(Config{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = NewProvider(Config{Provider: "bard", APIKey: "k"})
	assert.Error(t, err)
}
