// File: internal/domain/chat.go
package domain

import "time"

// DefaultChatTitle is the title a chat carries until its first reply derives one.
const DefaultChatTitle = "New chat"

// Chat represents a single conversation thread.
type Chat struct {
	Seq       uint64    `json:"-" gorm:"primaryKey;autoIncrement"`
	ID        string    `json:"id" gorm:"uniqueIndex;size:36;not null"`
	Title     string    `json:"title" gorm:"not null"` // e.g. "Capital of Sweden"
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index"`
}

// NewChat holds the caller-supplied fields of a chat.
type NewChat struct {
	Title string
}
