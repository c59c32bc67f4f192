package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type ConversationRepo interface {
	Create(ctx context.Context, c *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	// List returns conversations newest first, without their messages.
	List(ctx context.Context) ([]*domain.Conversation, error)
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, c *domain.Conversation) error
	Delete(ctx context.Context, id string) error
}
