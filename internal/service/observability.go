package service

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/tasktamer/internal/dialogue"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case
// such as a dialogue turn or a step toggle.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []any{
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, k, event.Fields[k])
	}

	level := slog.LevelInfo
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, "error", event.Err.Error())
	}
	o.logger.Log(ctx, level, "service_use_case", attrs...)
}

// useCaseObservers fans one event out to several observers.
type useCaseObservers []UseCaseObserver

func (obs useCaseObservers) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range obs {
		o.ObserveUseCase(ctx, event)
	}
}

// combineUseCaseObservers drops nil observers and returns Noop when none
// remain.
func combineUseCaseObservers(observers []UseCaseObserver) UseCaseObserver {
	var live useCaseObservers
	for _, o := range observers {
		if o != nil {
			live = append(live, o)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}

// NewCompletionListener reports finished checklists to observer as a
// "checklist-completed" use case.
func NewCompletionListener(observer UseCaseObserver) dialogue.Listener {
	if observer == nil {
		observer = NoopUseCaseObserver{}
	}
	return dialogue.ListenerFunc(func(conversationID, messageID string) {
		observer.ObserveUseCase(context.Background(), UseCaseEvent{
			Name:      "checklist-completed",
			StartedAt: time.Now().UTC(),
			Success:   true,
			Fields:    map[string]any{"conversation_id": conversationID, "message_id": messageID},
		})
	})
}
