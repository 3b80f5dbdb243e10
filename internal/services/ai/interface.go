// File: internal/services/ai/interface.go
package ai

import "context"

// Turn roles understood by the completion provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of the conversation handed to the provider, oldest first.
type Turn struct {
	Role    string
	Content string
}

// CompletionProvider turns an ordered conversation into a single assistant reply.
type CompletionProvider interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}
