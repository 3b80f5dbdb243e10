// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// FallbackReply stands in for an empty provider payload.
const FallbackReply = "I apologize, but I couldn't generate a response."

type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Complete issues exactly one chat completion request. There is no retry and no streaming.
func (p *OpenAIProvider) Complete(ctx context.Context, turns []Turn) (string, error) {
	if len(turns) == 0 {
		return "", &AIError{Type: ErrTypeProvider, Operation: "completion", Message: "no conversation turns supplied"}
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    messages,
		Temperature: p.config.Temperature,
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return FallbackReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError folds provider-specific failures into the gateway taxonomy.
func classifyError(err error) *AIError {
	status := 0
	message := err.Error()

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
		message = apiErr.Message
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
		if reqErr.Err != nil {
			message = reqErr.Err.Error()
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &AIError{Type: ErrTypeProvider, Operation: "completion", Message: "completion request timed out", Cause: err}
	}

	switch status {
	case http.StatusTooManyRequests:
		return &AIError{Type: ErrTypeRateLimit, Code: status, Operation: "completion", Message: message, Cause: err}
	case http.StatusUnauthorized:
		return &AIError{Type: ErrTypeAuth, Code: status, Operation: "completion", Message: message, Cause: err}
	default:
		return &AIError{Type: ErrTypeProvider, Code: status, Operation: "completion", Message: message, Cause: err}
	}
}
