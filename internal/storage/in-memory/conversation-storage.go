package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okadapy/persona-bot/internal/model"
)

// ConversationStorage is an append-only in-memory log.
type ConversationStorage struct {
	mu       sync.RWMutex
	messages []model.InboundMessage
	replies  []model.Reply
}

func NewConversationStorage() *ConversationStorage {
	return &ConversationStorage{}
}

func (c *ConversationStorage) AppendMessage(_ context.Context, msg model.InboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return nil
}

func (c *ConversationStorage) AppendReply(_ context.Context, reply model.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	if reply.Time.IsZero() {
		reply.Time = time.Now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, reply)
	return nil
}

// Messages returns a copy of the stored inbound messages.
func (c *ConversationStorage) Messages() []model.InboundMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.InboundMessage(nil), c.messages...)
}

// Replies returns a copy of the stored replies.
func (c *ConversationStorage) Replies() []model.Reply {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Reply(nil), c.replies...)
}
