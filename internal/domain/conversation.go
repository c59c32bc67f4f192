package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Step is one checklist entry. Text is always sanitized and non-empty.
type Step struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Message is an append-only conversation entry. Only the Done flags of its
// steps and the motivation bookkeeping change after it is appended.
type Message struct {
	ID            string    `json:"id"`
	Role          Role      `json:"role"`
	Text          string    `json:"text"`
	Steps         []Step    `json:"steps,omitempty"`
	Motivation    string    `json:"motivation,omitempty"`
	LastMilestone int       `json:"lastMilestone,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HasSteps reports whether the message carries a checklist.
func (m *Message) HasSteps() bool {
	return len(m.Steps) > 0
}

// Progress summarizes the message's checklist.
func (m *Message) Progress() Progress {
	return ProgressOf(m.Steps)
}

// ToggleStep flips the done flag of the step with the given id.
// Returns false when no such step exists.
func (m *Message) ToggleStep(stepID string) bool {
	for i := range m.Steps {
		if m.Steps[i].ID == stepID {
			m.Steps[i].Done = !m.Steps[i].Done
			return true
		}
	}
	return false
}

type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	Phase     Phase      `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewConversation returns an empty conversation in the initial phase.
func NewConversation(id, title string, now time.Time) *Conversation {
	return &Conversation{
		ID:        id,
		Title:     title,
		Phase:     Empty{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(m *Message) {
	c.Messages = append(c.Messages, m)
	if m.CreatedAt.After(c.UpdatedAt) {
		c.UpdatedAt = m.CreatedAt
	}
}

// FindMessage returns the message with the given id, or nil.
func (c *Conversation) FindMessage(id string) *Message {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// LatestChecklist returns the most recent message carrying steps, or nil.
func (c *Conversation) LatestChecklist() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].HasSteps() {
			return c.Messages[i]
		}
	}
	return nil
}

// CurrentPhase never returns nil; a zero-value conversation is Empty.
func (c *Conversation) CurrentPhase() Phase {
	if c.Phase == nil {
		return Empty{}
	}
	return c.Phase
}

// CapturedTask returns the task text fixed for this conversation, if any.
func (c *Conversation) CapturedTask() (string, bool) {
	return CapturedTask(c.CurrentPhase())
}

// TaskTitle is the key used for motivation lookups: the captured task, or the
// conversation title when nothing was captured.
func (c *Conversation) TaskTitle() string {
	if task, ok := c.CapturedTask(); ok && strings.TrimSpace(task) != "" {
		return task
	}
	return c.Title
}
