// File: internal/domain/message.go
package domain

import (
	"fmt"
	"time"
)

// Role tags the author of a message turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two permitted roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ParseRole converts raw input into a Role, rejecting anything outside the closed set.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q: must be %q or %q", raw, RoleUser, RoleAssistant)
	}
	return role, nil
}

// Message represents a single turn within a chat. Messages are immutable once stored.
type Message struct {
	Seq       uint64    `json:"-" gorm:"primaryKey;autoIncrement"`
	ID        string    `json:"id" gorm:"uniqueIndex;size:36;not null"`
	ChatID    string    `json:"chatId" gorm:"index;size:36;not null"` // The ID of the chat this message belongs to
	Role      Role      `json:"role" gorm:"size:16;not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index"`
}

// NewMessage holds the caller-supplied fields of a message.
type NewMessage struct {
	ChatID  string
	Role    Role
	Content string
}
