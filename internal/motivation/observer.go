package motivation

import (
	"context"
	"io"
	"log/slog"
)

type Outcome string

const (
	OutcomeHit       Outcome = "hit"
	OutcomeGenerated Outcome = "generated"
	OutcomeFallback  Outcome = "fallback"
)

// LookupEvent describes how one motivation line was obtained.
type LookupEvent struct {
	Key     Key
	Outcome Outcome
	Err     error // generator failure behind a fallback
}

// Observer receives cache lookup events.
type Observer interface {
	OnLookup(ctx context.Context, event LookupEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) OnLookup(context.Context, LookupEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes lookup events to w.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) OnLookup(ctx context.Context, event LookupEvent) {
	attrs := []any{
		"outcome", string(event.Outcome),
		"bucket", event.Key.Bucket,
		"completed", event.Key.Completed,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "motivation_lookup", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "motivation_lookup", attrs...)
}
