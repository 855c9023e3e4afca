package tts

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// LoadConfigFromEnv builds a Config from TTSPIPE_* environment variables,
// falling back to the struct tag defaults.
func LoadConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfigFromViper overlays values from Viper (config file plus bound
// flags) onto the environment-derived Config. Viper keys mirror the YAML
// field names.
func LoadConfigFromViper() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	if viper.IsSet("endpoint") {
		cfg.Endpoint = viper.GetString("endpoint")
	}
	if viper.IsSet("api_key") {
		cfg.APIKey = viper.GetString("api_key")
	}
	if viper.IsSet("model") {
		cfg.Model = viper.GetString("model")
	}
	if viper.IsSet("voice") {
		cfg.Voice = viper.GetString("voice")
	}
	if viper.IsSet("response_format") {
		cfg.ResponseFormat = viper.GetString("response_format")
	}
	if viper.IsSet("max_chunk_chars") {
		cfg.MaxChunkChars = viper.GetInt("max_chunk_chars")
	}
	if viper.IsSet("max_workers") {
		cfg.MaxWorkers = viper.GetInt("max_workers")
	}
	if viper.IsSet("request_timeout") {
		cfg.RequestTimeout = viper.GetDuration("request_timeout")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
