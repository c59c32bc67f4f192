package domain

import "fmt"

type PhaseKind string

const (
	PhaseEmpty             PhaseKind = "empty"
	PhaseAwaitingTask      PhaseKind = "awaiting_task"
	PhaseAwaitingBreakdown PhaseKind = "awaiting_breakdown"
	PhaseChecklistActive   PhaseKind = "checklist_active"
	PhaseNormalChat        PhaseKind = "normal_chat"
)

// Phase is the dialogue state of a conversation. Each variant carries exactly
// the data valid in that state, so a phase awaiting a breakdown decision
// always has a captured task.
type Phase interface {
	Kind() PhaseKind
}

type Empty struct{}

type AwaitingTask struct{}

// AwaitingBreakdown waits for "1"; any other input asks for more detail.
type AwaitingBreakdown struct {
	Task string
}

type ChecklistActive struct {
	Task string
}

type NormalChat struct {
	Task string
}

func (Empty) Kind() PhaseKind             { return PhaseEmpty }
func (AwaitingTask) Kind() PhaseKind      { return PhaseAwaitingTask }
func (AwaitingBreakdown) Kind() PhaseKind { return PhaseAwaitingBreakdown }
func (ChecklistActive) Kind() PhaseKind   { return PhaseChecklistActive }
func (NormalChat) Kind() PhaseKind        { return PhaseNormalChat }

// CapturedTask extracts the task text from phases that carry one.
func CapturedTask(p Phase) (string, bool) {
	switch v := p.(type) {
	case AwaitingBreakdown:
		return v.Task, true
	case ChecklistActive:
		return v.Task, true
	case NormalChat:
		return v.Task, true
	default:
		return "", false
	}
}

// PhaseRecord is the flattened storage form of a Phase.
type PhaseRecord struct {
	Kind PhaseKind
	Task string
}

// RecordOf flattens p for storage.
func RecordOf(p Phase) PhaseRecord {
	if p == nil {
		return PhaseRecord{Kind: PhaseEmpty}
	}
	rec := PhaseRecord{Kind: p.Kind()}
	rec.Task, _ = CapturedTask(p)
	return rec
}

// Phase rebuilds the variant, rejecting unknown kinds.
func (r PhaseRecord) Phase() (Phase, error) {
	switch r.Kind {
	case PhaseEmpty, "":
		return Empty{}, nil
	case PhaseAwaitingTask:
		return AwaitingTask{}, nil
	case PhaseAwaitingBreakdown:
		return AwaitingBreakdown{Task: r.Task}, nil
	case PhaseChecklistActive:
		return ChecklistActive{Task: r.Task}, nil
	case PhaseNormalChat:
		return NormalChat{Task: r.Task}, nil
	default:
		return nil, fmt.Errorf("unknown phase kind %q", r.Kind)
	}
}
