package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ExtractorClient talks to the content-extraction microservice, which turns
// a URL into plain text.
type ExtractorClient interface {
	Extract(ctx context.Context, url string) (string, error)
}

type extractorClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewExtractorClient creates a client for the extraction service.
func NewExtractorClient(baseURL string, logger zerolog.Logger) ExtractorClient {
	return &extractorClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("service", "ExtractorClient").Logger(),
	}
}

type extractRequest struct {
	URL string `json:"url"`
}

type extractResponse struct {
	Text string `json:"text"`
}

func (c *extractorClient) Extract(ctx context.Context, url string) (string, error) {
	jsonBody, err := json.Marshal(extractRequest{URL: url})
	if err != nil {
		return "", fmt.Errorf("marshaling extraction request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/extract", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request to extraction service: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading extraction response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("error_body", string(body)).
			Msg("Extraction service returned error")
		return "", fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, string(body))
	}

	var er extractResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return "", fmt.Errorf("decoding extraction response: %w", err)
	}
	if er.Text == "" {
		return "", fmt.Errorf("extraction service returned no text for %s", url)
	}
	return er.Text, nil
}
