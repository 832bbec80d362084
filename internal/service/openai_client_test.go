package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewOpenAIClient("test-key", "test-model", zerolog.Nop())
	c.baseURL = srv.URL
	return c
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestCompleteSuccess(t *testing.T) {
	var gotReq chatCompletionRequest
	c := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  generated text  ")))
	})

	got, err := c.Complete(context.Background(), "system msg", "user msg", 0.6, 1800)
	require.NoError(t, err)
	assert.Equal(t, "generated text", got, "reply should be trimmed")

	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, 0.6, gotReq.Temperature)
	assert.Equal(t, 1800, gotReq.MaxTokens)
}

func TestCompleteRateLimited(t *testing.T) {
	c := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Complete(context.Background(), "s", "u", 0.6, 100)
	assert.ErrorIs(t, err, ErrBackendBusy)
}

func TestCompleteRejected(t *testing.T) {
	c := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"content policy"}}`, http.StatusBadRequest)
	})

	_, err := c.Complete(context.Background(), "s", "u", 0.6, 100)
	assert.ErrorIs(t, err, ErrBackendRejected)
}

func TestCompleteServerError(t *testing.T) {
	c := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Complete(context.Background(), "s", "u", 0.6, 100)
	assert.ErrorIs(t, err, ErrBackendFailure)
}

func TestCompleteNoChoices(t *testing.T) {
	c := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Complete(context.Background(), "s", "u", 0.6, 100)
	assert.ErrorIs(t, err, ErrBackendFailure)
}

func TestCompleteEmptyContentIsFailure(t *testing.T) {
	c := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("   ")))
	})

	_, err := c.Complete(context.Background(), "s", "u", 0.6, 100)
	assert.ErrorIs(t, err, ErrBackendFailure)
}
