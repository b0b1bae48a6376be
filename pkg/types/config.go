// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	// Host is the listen address (default "127.0.0.1").
	Host string `json:"host" yaml:"host"`

	// Port is the listen port (default 8080).
	Port int `json:"port" yaml:"port"`

	// RequestTimeout bounds handling of a single HTTP request (default 120s).
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`

	// SessionIdleExpiry is how long an untouched browser session is kept
	// before the registry purges it (default 30m).
	SessionIdleExpiry time.Duration `json:"session_idle_expiry" yaml:"session_idle_expiry"`
}

// GenerationConfig holds settings for the generation API adapter.
type GenerationConfig struct {
	// Model is the generation model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API. Usually
	// left empty here and supplied via .secrets/gemini-api-key or the
	// GEMINI_API_KEY environment variable.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout is the HTTP client timeout for one generation call
	// (default 120s; the remote call can legitimately take a while when
	// search grounding is enabled).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PromptConfig holds settings for the source-lookup prompt.
type PromptConfig struct {
	// SourceCount is how many sources the prompt asks for (default 5).
	SourceCount int `json:"source_count" yaml:"source_count"`

	// RecencyYears is the publication window the prompt asks for,
	// counted back from now (default 5).
	RecencyYears int `json:"recency_years" yaml:"recency_years"`
}

// Config groups all source-scout configuration.
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Prompt     PromptConfig     `json:"prompt" yaml:"prompt"`
}

// DefaultConfig returns the configuration used when no config file or
// environment overrides are present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              8080,
			RequestTimeout:    120 * time.Second,
			SessionIdleExpiry: 30 * time.Minute,
		},
		Generation: GenerationConfig{
			Model:   "gemini-2.5-flash",
			Timeout: 120 * time.Second,
		},
		Prompt: PromptConfig{
			SourceCount:  5,
			RecencyYears: 5,
		},
	}
}
