package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

// Conversation options
type ConversationOption func(*domain.Conversation)

func WithPhase(p domain.Phase) ConversationOption {
	return func(c *domain.Conversation) {
		c.Phase = p
	}
}

func WithMessages(msgs ...*domain.Message) ConversationOption {
	return func(c *domain.Conversation) {
		for _, m := range msgs {
			c.Append(m)
		}
	}
}

func WithUpdatedAt(t time.Time) ConversationOption {
	return func(c *domain.Conversation) {
		c.UpdatedAt = t
	}
}

func NewTestConversation(title string, opts ...ConversationOption) *domain.Conversation {
	c := domain.NewConversation(uuid.New().String(), title, time.Now().UTC())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewTestMessage(role domain.Role, text string) *domain.Message {
	return &domain.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestChecklist builds an assistant message with one undone step per text,
// numbered step-1, step-2, ...
func NewTestChecklist(texts ...string) *domain.Message {
	m := NewTestMessage(domain.RoleAssistant, "")
	for i, text := range texts {
		m.Steps = append(m.Steps, domain.Step{ID: fmt.Sprintf("step-%d", i+1), Text: text})
	}
	return m
}
