// File: internal/client/api_client.go
package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iyunix/go-chat/internal/domain"
)

// API is the server surface the controller depends on.
type API interface {
	ListChats(ctx context.Context) ([]domain.Chat, error)
	CreateChat(ctx context.Context, title string) (*domain.Chat, error)
	ListMessages(ctx context.Context, chatID string) ([]domain.Message, error)
	SendMessage(ctx context.Context, chatID, content string) (*domain.SendMessageResponse, error)
	RegenerateReply(ctx context.Context, chatID string) (*domain.SendMessageResponse, error)
}

// APIError is a non-2xx response from the chat server.
type APIError struct {
	Status  int
	Message string
	Details []domain.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type APIClient struct {
	client *resty.Client
}

// NewAPIClient talks to the chat server at baseURL. The timeout must cover a full completion round trip.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *APIClient) ListChats(ctx context.Context) ([]domain.Chat, error) {
	var chats []domain.Chat
	res, err := c.client.R().
		SetContext(ctx).
		SetResult(&chats).
		SetError(&domain.ErrorResponse{}).
		Get("/api/chats")
	if err := checkResponse(res, err); err != nil {
		return nil, err
	}
	return chats, nil
}

func (c *APIClient) CreateChat(ctx context.Context, title string) (*domain.Chat, error) {
	var chat domain.Chat
	res, err := c.client.R().
		SetContext(ctx).
		SetBody(domain.CreateChatRequest{Title: &title}).
		SetResult(&chat).
		SetError(&domain.ErrorResponse{}).
		Post("/api/chats")
	if err := checkResponse(res, err); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *APIClient) ListMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	var messages []domain.Message
	res, err := c.client.R().
		SetContext(ctx).
		SetPathParam("chatId", chatID).
		SetResult(&messages).
		SetError(&domain.ErrorResponse{}).
		Get("/api/chats/{chatId}/messages")
	if err := checkResponse(res, err); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *APIClient) SendMessage(ctx context.Context, chatID, content string) (*domain.SendMessageResponse, error) {
	var exchange domain.SendMessageResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetPathParam("chatId", chatID).
		SetBody(domain.SendMessageRequest{Role: string(domain.RoleUser), Content: content}).
		SetResult(&exchange).
		SetError(&domain.ErrorResponse{}).
		Post("/api/chats/{chatId}/messages")
	if err := checkResponse(res, err); err != nil {
		return nil, err
	}
	return &exchange, nil
}

func (c *APIClient) RegenerateReply(ctx context.Context, chatID string) (*domain.SendMessageResponse, error) {
	var exchange domain.SendMessageResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetPathParam("chatId", chatID).
		SetResult(&exchange).
		SetError(&domain.ErrorResponse{}).
		Post("/api/chats/{chatId}/regenerate")
	if err := checkResponse(res, err); err != nil {
		return nil, err
	}
	return &exchange, nil
}

func checkResponse(res *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !res.IsError() {
		return nil
	}

	apiErr := &APIError{Status: res.StatusCode()}
	if body, ok := res.Error().(*domain.ErrorResponse); ok && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Details = body.Details
	} else if text := strings.TrimSpace(res.String()); text != "" {
		apiErr.Message = text
	} else {
		apiErr.Message = http.StatusText(res.StatusCode())
	}
	return apiErr
}

var _ API = (*APIClient)(nil)
