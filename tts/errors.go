package tts

import (
	"errors"
	"fmt"
)

// Common errors for the TTS pipeline.
var (
	// Configuration errors. Surfaced before any network call is made.
	ErrMissingEndpoint = errors.New("TTS endpoint is not configured")
	ErrMissingAPIKey   = errors.New("TTS API key is not configured")
	ErrInvalidConfig   = errors.New("invalid configuration")

	// Input validation errors.
	ErrEmptyInput   = errors.New("no text to convert")
	ErrInvalidVoice = errors.New("unknown voice")

	// ErrAllChunksFailed means every chunk of a conversion failed to
	// synthesize, so there is no audio to present.
	ErrAllChunksFailed = errors.New("all chunks failed to synthesize")
)

// RequestError is a non-success response from the synthesis endpoint.
type RequestError struct {
	StatusCode int
	Body       string // response body, truncated for logging
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("synthesis request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("synthesis request failed with status %d: %s", e.StatusCode, e.Body)
}

// ChunkError records the failure of a single chunk's synthesis. The
// dispatcher converts per-chunk errors into values rather than letting them
// abort sibling chunks.
type ChunkError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error.
func (e *ChunkError) Unwrap() error {
	return e.Err
}
