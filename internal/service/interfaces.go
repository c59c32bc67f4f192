package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/tasktamer/internal/dialogue"
	"github.com/alexanderramin/tasktamer/internal/domain"
)

// ErrConversationBusy is returned when another operation on the same
// conversation is still in flight.
var ErrConversationBusy = errors.New("conversation is busy")

// SendResult is the conversation after a user turn plus what the turn added.
type SendResult struct {
	Conversation *domain.Conversation
	Turn         dialogue.Turn
}

// ToggleOutcome is the conversation after a toggle plus the checklist state.
type ToggleOutcome struct {
	Conversation *domain.Conversation
	Result       dialogue.ToggleResult
}

type ConversationService interface {
	// Create starts an empty conversation. A blank title becomes "Chat N".
	Create(ctx context.Context, title string) (*domain.Conversation, error)
	Get(ctx context.Context, id string) (*domain.Conversation, error)
	// Latest returns the most recently updated conversation, creating one
	// when none exist.
	Latest(ctx context.Context) (*domain.Conversation, error)
	List(ctx context.Context) ([]*domain.Conversation, error)
	Delete(ctx context.Context, id string) error
	Send(ctx context.Context, id, text string) (*SendResult, error)
	ToggleStep(ctx context.Context, id, messageID, stepID string) (*ToggleOutcome, error)
}
