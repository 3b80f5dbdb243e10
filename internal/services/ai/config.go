// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string // empty means the provider's public endpoint
	Model   string

	// Timeout bounds one completion request end to end.
	Timeout time.Duration

	Temperature float32
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return NewConfigError("model is required")
	}
	if c.Timeout <= 0 {
		return NewConfigError(fmt.Sprintf("timeout must be positive, got %s", c.Timeout))
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:   "gpt-4o-mini",
		Timeout: 60 * time.Second,
	}
}
