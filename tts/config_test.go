package tts

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"unknown voice", func(c *Config) { c.Voice = "baritone" }},
		{"unknown format", func(c *Config) { c.ResponseFormat = "ogg" }},
		{"zero chunk chars", func(c *Config) { c.MaxChunkChars = 0 }},
		{"negative chunk chars", func(c *Config) { c.MaxChunkChars = -1 }},
		{"zero workers", func(c *Config) { c.MaxWorkers = 0 }},
		{"sub-second timeout", func(c *Config) { c.RequestTimeout = 500 * time.Millisecond }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigValidateNormalizesFormatCase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResponseFormat = "MP3"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.ResponseFormat != FormatMP3 {
		t.Errorf("format = %q, want %q", cfg.ResponseFormat, FormatMP3)
	}
}

func TestConfigValidateAllowsMissingCredentials(t *testing.T) {
	// Endpoint and key absence is an engine construction error, not a
	// config error, so offline use of the chunker stays possible.
	cfg := DefaultConfig()
	cfg.Endpoint = ""
	cfg.APIKey = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TTSPIPE_ENDPOINT", "https://example.openai.azure.com/speech")
	t.Setenv("TTSPIPE_API_KEY", "secret")
	t.Setenv("TTSPIPE_VOICE", "nova")
	t.Setenv("TTSPIPE_MAX_WORKERS", "5")
	t.Setenv("TTSPIPE_REQUEST_TIMEOUT", "45s")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error: %v", err)
	}

	if cfg.Endpoint != "https://example.openai.azure.com/speech" {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.Voice != "nova" {
		t.Errorf("voice = %q, want nova", cfg.Voice)
	}
	if cfg.MaxWorkers != 5 {
		t.Errorf("max workers = %d, want 5", cfg.MaxWorkers)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("request timeout = %v, want 45s", cfg.RequestTimeout)
	}

	// Untouched settings fall back to the tag defaults.
	if cfg.Model != "gpt-4o-mini-tts" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.MaxChunkChars != 4000 {
		t.Errorf("max chunk chars = %d, want 4000", cfg.MaxChunkChars)
	}
}

func TestLoadConfigFromEnvRejectsInvalid(t *testing.T) {
	t.Setenv("TTSPIPE_VOICE", "megaphone")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}
