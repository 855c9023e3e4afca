package tts

import (
	"fmt"
	"strings"
	"time"
)

// Audio response formats accepted by the synthesis API.
const (
	FormatMP3  = "mp3"
	FormatOpus = "opus"
	FormatAAC  = "aac"
	FormatFLAC = "flac"
	FormatWAV  = "wav"
	FormatPCM  = "pcm"
)

// ResponseFormats lists the formats the synthesis API can return.
func ResponseFormats() []string {
	return []string{FormatMP3, FormatOpus, FormatAAC, FormatFLAC, FormatWAV, FormatPCM}
}

// Config contains all TTS pipeline configuration options. Values are loaded
// from the YAML config file, TTSPIPE_* environment variables, and command
// line flags, in increasing order of precedence. A Config is an immutable
// snapshot once handed to a pipeline; changing settings means building a new
// pipeline.
type Config struct {
	// Endpoint is the full speech URL of the Azure OpenAI deployment, e.g.
	// https://RESOURCE.openai.azure.com/openai/deployments/DEPLOYMENT/audio/speech?api-version=2025-03-01-preview
	Endpoint string `yaml:"endpoint" env:"TTSPIPE_ENDPOINT"`

	// APIKey is the bearer credential for the endpoint.
	APIKey string `yaml:"api_key" env:"TTSPIPE_API_KEY"`

	// Model is the deployment's model name sent in the request body.
	Model string `yaml:"model" env:"TTSPIPE_MODEL" envDefault:"gpt-4o-mini-tts"`

	// Voice is the default voice preset.
	Voice string `yaml:"voice" env:"TTSPIPE_VOICE" envDefault:"alloy"`

	// ResponseFormat selects the audio container returned by the API.
	ResponseFormat string `yaml:"response_format" env:"TTSPIPE_RESPONSE_FORMAT" envDefault:"mp3"`

	// MaxChunkChars caps the characters sent per synthesis request.
	MaxChunkChars int `yaml:"max_chunk_chars" env:"TTSPIPE_MAX_CHUNK_CHARS" envDefault:"4000"`

	// MaxWorkers bounds how many synthesis requests run concurrently.
	MaxWorkers int `yaml:"max_workers" env:"TTSPIPE_MAX_WORKERS" envDefault:"3"`

	// RequestTimeout applies independently to each chunk's network call.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"TTSPIPE_REQUEST_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns a Config with sensible defaults. Endpoint and APIKey
// have no defaults; they must come from configuration.
func DefaultConfig() Config {
	return Config{
		Model:          "gpt-4o-mini-tts",
		Voice:          string(DefaultVoice),
		ResponseFormat: FormatMP3,
		MaxChunkChars:  4000,
		MaxWorkers:     DefaultMaxWorkers,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Validate checks ranges and enumerations. It does not require Endpoint or
// APIKey to be set — those are checked when the synthesis client is built,
// so that offline operations (chunk preview, mock engines) stay usable.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrInvalidConfig)
	}

	voice, err := ParseVoice(c.Voice)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.Voice = voice.String()

	formatValid := false
	for _, f := range ResponseFormats() {
		if strings.EqualFold(c.ResponseFormat, f) {
			c.ResponseFormat = f
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("%w: response_format %q must be one of %v", ErrInvalidConfig, c.ResponseFormat, ResponseFormats())
	}

	if c.MaxChunkChars < 1 {
		return fmt.Errorf("%w: max_chunk_chars must be at least 1, got %d", ErrInvalidConfig, c.MaxChunkChars)
	}

	if c.MaxWorkers < 1 {
		return fmt.Errorf("%w: max_workers must be at least 1, got %d", ErrInvalidConfig, c.MaxWorkers)
	}

	if c.RequestTimeout < time.Second {
		return fmt.Errorf("%w: request_timeout must be at least 1 second, got %v", ErrInvalidConfig, c.RequestTimeout)
	}

	return nil
}
