package llm

import (
	"io"
	"log/slog"
)

// LLMCallEvent records metadata about a single completion call.
type LLMCallEvent struct {
	Task       TaskType
	Model      string
	LatencyMs  int64
	Attempts   int
	Success    bool
	StatusCode int
	ErrorCode  string
}

// Observer receives events about completion calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes one structured line per call.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{logger: slog.New(slog.NewTextHandler(w, nil))}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []any{
		"task", string(event.Task),
		"model", event.Model,
		"latency_ms", event.LatencyMs,
		"attempts", event.Attempts,
	}
	if event.StatusCode != 0 {
		attrs = append(attrs, "http", event.StatusCode)
	}
	if !event.Success {
		o.logger.Warn("ai_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("ai_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
