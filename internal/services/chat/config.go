// File: internal/services/chat/config.go
package chat

import "fmt"

// DefaultSystemPrompt is prepended to every completion request.
const DefaultSystemPrompt = "You are a helpful assistant. Always provide concise, one-line answers. " +
	"Keep responses brief and to the point, answering only what was asked without elaboration. " +
	"If asked about current events or information after your knowledge cutoff date, clearly state " +
	"that your information may be outdated and recommend the user verify current information from reliable sources."

type Config struct {
	SystemPrompt   string // instruction sent ahead of the conversation
	TitleMaxLength int    // characters of the first user message kept as the chat title
}

func (c *Config) Validate() error {
	if c.SystemPrompt == "" {
		return fmt.Errorf("system_prompt is required")
	}
	if c.TitleMaxLength <= 0 {
		return fmt.Errorf("title_max_length must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		SystemPrompt:   DefaultSystemPrompt,
		TitleMaxLength: 50,
	}
}
