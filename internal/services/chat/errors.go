// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"

	"github.com/iyunix/go-chat/internal/domain"
	"github.com/iyunix/go-chat/internal/repository"
	"github.com/iyunix/go-chat/internal/services/ai"
)

type ErrorType string

const (
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypeRateLimited ErrorType = "RATE_LIMITED"
	ErrTypeAuthConfig  ErrorType = "AUTH_CONFIG"
	ErrTypeProvider    ErrorType = "PROVIDER"
	ErrTypeStorage     ErrorType = "STORAGE"
)

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    string
	Details   []domain.FieldError // populated for VALIDATION only
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

func NewValidationError(operation string, details ...domain.FieldError) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: "invalid input", Details: details}
}

func NewNotFoundError(operation, chatID string) *ChatError {
	return &ChatError{Type: ErrTypeNotFound, Operation: operation, Message: "chat not found", ChatID: chatID}
}

func NewStorageError(operation, chatID string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStorage, Operation: operation, Message: "storage failure", ChatID: chatID, Cause: cause}
}

// fromRepository classifies a repository failure.
func fromRepository(operation, chatID string, err error) *ChatError {
	if errors.Is(err, repository.ErrChatNotFound) {
		notFound := NewNotFoundError(operation, chatID)
		notFound.Cause = err
		return notFound
	}
	return NewStorageError(operation, chatID, err)
}

// fromGateway maps the completion taxonomy onto orchestrator error types.
func fromGateway(operation, chatID string, err error) *ChatError {
	chatErr := &ChatError{Operation: operation, ChatID: chatID, Message: err.Error(), Cause: err}

	var aiErr *ai.AIError
	if errors.As(err, &aiErr) {
		chatErr.Message = aiErr.Message
	}

	switch ai.TypeOf(err) {
	case ai.ErrTypeRateLimit:
		chatErr.Type = ErrTypeRateLimited
	case ai.ErrTypeAuth, ai.ErrTypeConfig:
		chatErr.Type = ErrTypeAuthConfig
	default:
		chatErr.Type = ErrTypeProvider
	}
	return chatErr
}

// TypeOf returns the error type of err, or "" when err is not a ChatError.
func TypeOf(err error) ErrorType {
	var chatErr *ChatError
	if errors.As(err, &chatErr) {
		return chatErr.Type
	}
	return ""
}
