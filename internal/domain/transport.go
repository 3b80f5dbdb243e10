// File: internal/domain/transport.go
package domain

// CreateChatRequest is the body of POST /api/chats.
type CreateChatRequest struct {
	Title *string `json:"title"`
}

// SendMessageRequest is the body of POST /api/chats/{chatId}/messages.
type SendMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SendMessageResponse carries both turns persisted by a send.
type SendMessageResponse struct {
	UserMessage      Message `json:"userMessage"`
	AssistantMessage Message `json:"assistantMessage"`
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}
