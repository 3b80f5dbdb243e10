// File: internal/client/mutation.go
package client

import (
	"context"
	"sync"

	"github.com/iyunix/go-chat/internal/domain"
)

// MutationState tracks one optimistic send.
type MutationState int

const (
	StatePending MutationState = iota
	StateSettled
	StateRolledBack
)

func (s MutationState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSettled:
		return "settled"
	case StateRolledBack:
		return "rolled-back"
	default:
		return "unknown"
	}
}

// Mutation is the handle for one in-flight send, keyed by its temporary message id.
type Mutation struct {
	TempID string
	ChatID string

	done chan struct{}

	mu       sync.Mutex
	state    MutationState
	exchange *domain.SendMessageResponse
	err      error
}

func newMutation(tempID, chatID string) *Mutation {
	return &Mutation{
		TempID: tempID,
		ChatID: chatID,
		done:   make(chan struct{}),
		state:  StatePending,
	}
}

func (m *Mutation) settle(exchange *domain.SendMessageResponse, err error) {
	m.mu.Lock()
	if err != nil {
		m.state = StateRolledBack
	} else {
		m.state = StateSettled
	}
	m.exchange = exchange
	m.err = err
	m.mu.Unlock()
	close(m.done)
}

func (m *Mutation) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Done is closed once the mutation has settled or rolled back.
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the send finishes or ctx ends. Cancelling ctx does not cancel the send.
func (m *Mutation) Wait(ctx context.Context) (*domain.SendMessageResponse, error) {
	select {
	case <-m.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exchange, m.err
}
