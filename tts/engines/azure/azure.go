// Package azure provides a tts.Engine backed by an Azure OpenAI speech
// deployment. The endpoint speaks the OpenAI audio/speech protocol: a JSON
// body with model, input, and voice, answered with raw encoded audio bytes.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttspipe/tts"
)

// DefaultModel is the model name sent when none is configured.
const DefaultModel = "gpt-4o-mini-tts"

// maxErrorBody caps how much of an error response is kept for reporting.
const maxErrorBody = 2048

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithModel sets the model name sent in the request body.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithResponseFormat asks the API for a specific audio container (e.g.
// "mp3", "wav", "pcm"). When empty, the API's default (mp3) applies.
func WithResponseFormat(format string) Option {
	return func(c *Client) {
		c.responseFormat = format
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client implements tts.Engine against an Azure OpenAI speech endpoint. A
// Client is immutable after construction and safe for concurrent use.
type Client struct {
	endpoint       string
	apiKey         string
	model          string
	responseFormat string
	httpClient     *http.Client
	logger         *log.Logger
}

var _ tts.Engine = (*Client)(nil)

// New creates a Client for the given deployment endpoint and bearer
// credential. Both are required; missing values are reported here, before
// any network call can happen.
func New(endpoint, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, tts.ErrMissingEndpoint
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, tts.ErrMissingAPIKey
	}

	c := &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      DefaultModel,
		httpClient: &http.Client{Timeout: tts.DefaultRequestTimeout},
		logger:     log.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Name returns the engine identifier.
func (c *Client) Name() string {
	return "azure"
}

// speechRequest is the JSON body of an audio/speech call.
type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// Synthesize converts one chunk of text to audio.
//
// A connection failure, timeout, or non-2xx status is returned as an error;
// non-2xx statuses come back as *tts.RequestError carrying the status code
// and a truncated response body.
func (c *Client) Synthesize(ctx context.Context, text string, voice tts.Voice) ([]byte, error) {
	if text == "" {
		return nil, tts.ErrEmptyInput
	}

	payload, err := json.Marshal(speechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          voice.String(),
		ResponseFormat: c.responseFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("azure: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("azure: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure: synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &tts.RequestError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("azure: read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("azure: empty audio response")
	}

	c.logger.Debug("synthesis complete",
		"chars", len(text),
		"voice", voice,
		"audio_bytes", len(audio),
	)
	return audio, nil
}
