package tts

import (
	"net/http"
	"time"
)

// Config holds TTS provider configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Language is the BCP-47 language code (e.g. "en").
	Language string

	// Slow requests slower, clearer speech where supported.
	Slow bool

	// BaseURL overrides the provider endpoint, mainly for tests.
	BaseURL string

	// Timeout bounds each synthesis request.
	Timeout time.Duration

	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client

	// DebugDir, when set, receives a copy of every synthesized
	// utterance for offline listening.
	DebugDir string
}

// DefaultConfig returns the device defaults.
func DefaultConfig() Config {
	return Config{
		Language: "en",
		Timeout:  10 * time.Second,
	}
}

// Option is a functional option for configuring TTS providers.
type Option func(*Config)

// WithLanguage sets the synthesis language.
func WithLanguage(lang string) Option {
	return func(c *Config) {
		c.Language = lang
	}
}

// WithSlow requests slower speech.
func WithSlow(slow bool) Option {
	return func(c *Config) {
		c.Slow = slow
	}
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithDebugDir enables saving synthesized audio to dir.
func WithDebugDir(dir string) Option {
	return func(c *Config) {
		c.DebugDir = dir
	}
}
