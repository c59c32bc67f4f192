package motivation

import (
	"fmt"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

type Stage string

const (
	StageJustStarted    Stage = "just-started"
	StageGoodProgress   Stage = "making-good-progress"
	StageNearCompletion Stage = "near-completion"
	StageCompleted      Stage = "completed"
)

// StageOf maps a completion percentage to its message stage.
func StageOf(percent int) Stage {
	switch {
	case percent >= 100:
		return StageCompleted
	case percent >= 75:
		return StageNearCompletion
	case percent >= 50:
		return StageGoodProgress
	default:
		return StageJustStarted
	}
}

// Request describes the checklist state a line is wanted for.
type Request struct {
	TaskTitle string
	Progress  domain.Progress
}

func (r Request) Stage() Stage {
	return StageOf(r.Progress.Percent)
}

// Victory reports whether the checklist is fully done.
func (r Request) Victory() bool {
	return r.Progress.Complete()
}

// Key identifies a cached line.
type Key struct {
	TaskTitle string
	Bucket    int
	Completed int
}

func (k Key) String() string {
	return fmt.Sprintf("%q/%d/%d", k.TaskTitle, k.Bucket, k.Completed)
}

func KeyOf(r Request) Key {
	return Key{
		TaskTitle: r.TaskTitle,
		Bucket:    r.Progress.Bucket(),
		Completed: r.Progress.Completed,
	}
}

// NextMilestone reports whether p crosses into a bucket above last. Buckets
// below the first milestone never trigger, and a bucket already reached on
// this message never triggers twice.
func NextMilestone(last int, p domain.Progress) (int, bool) {
	bucket := p.Bucket()
	if p.Total == 0 || bucket < domain.MilestoneStep || bucket <= last {
		return last, false
	}
	return bucket, true
}
