// File: internal/client/controller.go
package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iyunix/go-chat/internal/domain"
)

// Notifier surfaces user-visible failures.
type Notifier interface {
	Notify(title, description string)
}

// Logger defines the logging interface used by the controller
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

const tempIDPrefix = "temp-"

// IsTemporary reports whether a message is still an unconfirmed optimistic entry.
func IsTemporary(message domain.Message) bool {
	return strings.HasPrefix(message.ID, tempIDPrefix)
}

type fetch struct {
	gen    uint64
	cancel context.CancelFunc
}

// Controller keeps the client-side view of chats and messages in step with the server.
// Sends are applied optimistically and either reconciled with the server's turns or rolled back.
type Controller struct {
	api      API
	notifier Notifier
	logger   Logger

	mu         sync.Mutex
	activeChat string
	chats      []domain.Chat
	messages   map[string][]domain.Message
	fetches    map[string]fetch
	fetchGen   uint64
	pending    int

	inflight sync.WaitGroup
}

func NewController(api API, notifier Notifier, logger Logger) *Controller {
	return &Controller{
		api:      api,
		notifier: notifier,
		logger:   logger,
		messages: make(map[string][]domain.Message),
		fetches:  make(map[string]fetch),
	}
}

func (c *Controller) ActiveChat() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeChat
}

// Pending reports whether a chat creation or send is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

func (c *Controller) Chats() []domain.Chat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Chat(nil), c.chats...)
}

// Messages returns a copy of the cached message list for chatID.
func (c *Controller) Messages(chatID string) []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Message(nil), c.messages[chatID]...)
}

// RefreshChats refetches the chat list.
func (c *Controller) RefreshChats(ctx context.Context) error {
	chats, err := c.api.ListChats(ctx)
	if err != nil {
		c.logger.Warn("failed to load chats", "error", err)
		c.notifier.Notify("Error loading chats", err.Error())
		return err
	}

	c.mu.Lock()
	c.chats = chats
	c.mu.Unlock()
	return nil
}

// SelectChat makes chatID active and loads its messages.
func (c *Controller) SelectChat(ctx context.Context, chatID string) error {
	c.mu.Lock()
	c.activeChat = chatID
	c.mu.Unlock()
	return c.LoadMessages(ctx, chatID)
}

// LoadMessages refetches chatID's messages. A send started meanwhile cancels the fetch and its result is dropped.
func (c *Controller) LoadMessages(ctx context.Context, chatID string) error {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if previous, ok := c.fetches[chatID]; ok {
		previous.cancel()
	}
	c.fetchGen++
	gen := c.fetchGen
	c.fetches[chatID] = fetch{gen: gen, cancel: cancel}
	c.mu.Unlock()

	messages, err := c.api.ListMessages(fetchCtx, chatID)

	c.mu.Lock()
	current, ok := c.fetches[chatID]
	superseded := !ok || current.gen != gen
	if !superseded {
		delete(c.fetches, chatID)
	}
	if err == nil && !superseded {
		c.messages[chatID] = messages
	}
	c.mu.Unlock()

	if superseded {
		if err == nil {
			err = context.Canceled
		}
		return err
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Warn("failed to load messages", "chat_id", chatID, "error", err)
			c.notifier.Notify("Error loading messages", err.Error())
		}
		return err
	}
	return nil
}

// NewChat creates a chat titled "New chat" and makes it active.
func (c *Controller) NewChat(ctx context.Context) (*domain.Chat, error) {
	c.mu.Lock()
	c.pending++
	c.mu.Unlock()

	created, err := c.api.CreateChat(ctx, domain.DefaultChatTitle)

	c.mu.Lock()
	c.pending--
	if err == nil {
		c.activeChat = created.ID
		c.messages[created.ID] = []domain.Message{}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("failed to create chat", "error", err)
		c.notifier.Notify("Error", err.Error())
		return nil, err
	}

	_ = c.RefreshChats(ctx)
	return created, nil
}

// Submit sends content to the active chat, creating a chat first when none is active.
// The optimistic user message is in the list by the time Submit returns.
// Blank input is ignored and yields a nil Mutation.
func (c *Controller) Submit(ctx context.Context, content string) (*Mutation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	chatID := c.ActiveChat()
	if chatID == "" {
		created, err := c.NewChat(ctx)
		if err != nil {
			return nil, err
		}
		chatID = created.ID
	}
	return c.send(ctx, chatID, content), nil
}

func (c *Controller) send(ctx context.Context, chatID, content string) *Mutation {
	tempID := tempIDPrefix + uuid.NewString()
	mutation := newMutation(tempID, chatID)

	c.mu.Lock()
	if inflight, ok := c.fetches[chatID]; ok {
		inflight.cancel()
		delete(c.fetches, chatID)
	}
	current, cached := c.messages[chatID]
	snapshot := append([]domain.Message(nil), current...)
	optimistic := domain.Message{
		ID:        tempID,
		ChatID:    chatID,
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	c.messages[chatID] = append(snapshot[:len(snapshot):len(snapshot)], optimistic)
	c.pending++
	c.mu.Unlock()

	// The send outlives the caller's cancellation once issued.
	sendCtx := context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		exchange, err := c.api.SendMessage(sendCtx, chatID, content)

		c.mu.Lock()
		c.pending--
		if err != nil {
			if cached {
				c.messages[chatID] = snapshot
			} else {
				delete(c.messages, chatID)
			}
		} else {
			c.messages[chatID] = reconcile(c.messages[chatID], tempID, exchange)
		}
		c.mu.Unlock()

		mutation.settle(exchange, err)

		if err != nil {
			c.logger.Warn("failed to send message", "chat_id", chatID, "error", err)
			c.notifier.Notify("Error sending message", err.Error())
			return
		}
		_ = c.RefreshChats(sendCtx)
	}()

	return mutation
}

// Regenerate asks the server to answer the active chat's last user turn again, then refetches
// the chat so the saved turn and the new reply both show up.
func (c *Controller) Regenerate(ctx context.Context) (*domain.SendMessageResponse, error) {
	chatID := c.ActiveChat()
	if chatID == "" {
		return nil, nil
	}

	c.mu.Lock()
	c.pending++
	c.mu.Unlock()

	exchange, err := c.api.RegenerateReply(ctx, chatID)

	c.mu.Lock()
	c.pending--
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("failed to regenerate reply", "chat_id", chatID, "error", err)
		c.notifier.Notify("Error sending message", err.Error())
		return nil, err
	}

	_ = c.LoadMessages(ctx, chatID)
	_ = c.RefreshChats(ctx)
	return exchange, nil
}

// reconcile swaps the optimistic entry for the confirmed user turn and puts the reply right after it.
func reconcile(list []domain.Message, tempID string, exchange *domain.SendMessageResponse) []domain.Message {
	index := -1
	for i, message := range list {
		if message.ID == tempID {
			index = i
			break
		}
	}

	updated := make([]domain.Message, 0, len(list)+2)
	if index == -1 {
		updated = append(updated, list...)
		return append(updated, exchange.UserMessage, exchange.AssistantMessage)
	}
	updated = append(updated, list[:index]...)
	updated = append(updated, exchange.UserMessage, exchange.AssistantMessage)
	return append(updated, list[index+1:]...)
}

// Wait blocks until every issued send has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}
