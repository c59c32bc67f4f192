package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tasktamer/internal/db"
	"github.com/alexanderramin/tasktamer/internal/dialogue"
	"github.com/alexanderramin/tasktamer/internal/domain"
	"github.com/alexanderramin/tasktamer/internal/repository"
)

type conversationService struct {
	conversations repository.ConversationRepo
	uow           db.UnitOfWork
	engine        *dialogue.Engine
	locks         *keyedTryLock
	observer      UseCaseObserver
}

// NewConversationService wires the dialogue engine to storage. Reads go
// through conversations; every write commits inside uow.
func NewConversationService(
	conversations repository.ConversationRepo,
	uow db.UnitOfWork,
	engine *dialogue.Engine,
	observers ...UseCaseObserver,
) ConversationService {
	return &conversationService{
		conversations: conversations,
		uow:           uow,
		engine:        engine,
		locks:         newKeyedTryLock(),
		observer:      combineUseCaseObservers(observers),
	}
}

func (s *conversationService) Create(ctx context.Context, title string) (*domain.Conversation, error) {
	var conv *domain.Conversation
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txConversations := repository.NewSQLiteConversationRepo(tx)

		title = strings.TrimSpace(title)
		if title == "" {
			n, err := txConversations.Count(ctx)
			if err != nil {
				return err
			}
			title = fmt.Sprintf("Chat %d", n+1)
		}

		conv = domain.NewConversation(uuid.New().String(), title, time.Now().UTC())
		return txConversations.Create(ctx, conv)
	})
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return conv, nil
}

func (s *conversationService) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.conversations.GetByID(ctx, id)
}

func (s *conversationService) Latest(ctx context.Context) (*domain.Conversation, error) {
	list, err := s.conversations.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return s.Create(ctx, "")
	}
	return s.conversations.GetByID(ctx, list[0].ID)
}

func (s *conversationService) List(ctx context.Context) ([]*domain.Conversation, error) {
	return s.conversations.List(ctx)
}

func (s *conversationService) Delete(ctx context.Context, id string) error {
	release, ok := s.locks.tryLock(id)
	if !ok {
		return ErrConversationBusy
	}
	defer release()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteConversationRepo(tx).Delete(ctx, id)
	})
}

// Send runs one dialogue turn. The upstream call happens outside any
// transaction; the try-lock keeps a second caller from saving over it.
func (s *conversationService) Send(ctx context.Context, id, text string) (res *SendResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"conversation_id": id}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "send",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	release, ok := s.locks.tryLock(id)
	if !ok {
		return nil, ErrConversationBusy
	}
	defer release()

	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields["phase_before"] = string(conv.CurrentPhase().Kind())

	turn, err := s.engine.SendUserInput(ctx, conv, text)
	if err != nil {
		return nil, err
	}
	fields["phase_after"] = string(turn.Phase)
	fields["upstream_failed"] = turn.Failed
	if reply := turn.Reply(); reply != nil {
		fields["steps"] = len(reply.Steps)
	}

	if err = s.save(ctx, conv); err != nil {
		return nil, err
	}
	return &SendResult{Conversation: conv, Turn: turn}, nil
}

func (s *conversationService) ToggleStep(ctx context.Context, id, messageID, stepID string) (out *ToggleOutcome, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"conversation_id": id, "message_id": messageID, "step_id": stepID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "toggle-step",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	release, ok := s.locks.tryLock(id)
	if !ok {
		return nil, ErrConversationBusy
	}
	defer release()

	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.ToggleStep(ctx, conv, messageID, stepID)
	if err != nil {
		return nil, err
	}
	fields["changed"] = result.Changed
	fields["percent"] = result.Progress.Percent
	fields["completed"] = result.Completed

	if result.Changed {
		if err = s.save(ctx, conv); err != nil {
			return nil, err
		}
	}
	return &ToggleOutcome{Conversation: conv, Result: result}, nil
}

func (s *conversationService) save(ctx context.Context, conv *domain.Conversation) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteConversationRepo(tx).Save(ctx, conv)
	})
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}
	return nil
}
