package llm

import "time"

// Config holds all configuration for the remote completion client.
type Config struct {
	Enabled    bool
	LogCalls   bool
	APIKey     string
	Endpoint   string
	Model      string
	Version    string
	MaxTokens  int
	TimeoutMs  int
	MaxRetries int
}

// DefaultConfig returns a Config with sensible defaults. The client stays
// unconfigured until an API key is supplied.
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		LogCalls:   false,
		Endpoint:   "https://api.anthropic.com/v1/messages",
		Model:      "claude-3-5-sonnet-20241022",
		Version:    "2023-06-01",
		MaxTokens:  2048,
		TimeoutMs:  30000,
		MaxRetries: 1,
	}
}

// Configured reports whether remote calls should be attempted.
func (c Config) Configured() bool {
	return c.Enabled && c.APIKey != ""
}

// Timeout returns the per-call timeout, defaulting to 30s.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
