package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ChatCompleter is the single-call surface the generation pipeline needs from
// the model backend.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error)
}

// OpenAIClient calls the OpenAI chat completions API over plain HTTP.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewOpenAIClient creates a client for the given API key and model.
func NewOpenAIClient(apiKey, model string, logger zerolog.Logger) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		logger: logger.With().Str("service", "OpenAIClient").Logger(),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one system+user exchange and returns the model's reply.
// Backend status codes are folded into the pipeline's error taxonomy: 429
// becomes ErrBackendBusy, 400 becomes ErrBackendRejected and anything else
// non-200 becomes ErrBackendFailure. An empty reply is a failure, never an
// empty success.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrBackendFailure, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrBackendBusy
	case resp.StatusCode == http.StatusBadRequest:
		c.logger.Warn().Str("error_body", string(body)).Msg("Completion request rejected")
		return "", ErrBackendRejected
	case resp.StatusCode != http.StatusOK:
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("error_body", string(body)).
			Msg("Completion request failed")
		return "", fmt.Errorf("%w: status %d", ErrBackendFailure, resp.StatusCode)
	}

	var cr chatCompletionResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrBackendFailure, err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", ErrBackendFailure)
	}
	content := strings.TrimSpace(cr.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: response contained no content", ErrBackendFailure)
	}
	return content, nil
}
