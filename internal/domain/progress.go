package domain

import "math"

// MilestoneStep is the width of a motivation milestone bucket, in percent.
const MilestoneStep = 5

type Progress struct {
	Completed int
	Total     int
	Percent   int
}

// ProgressOf counts done steps; Percent is rounded to the nearest integer.
func ProgressOf(steps []Step) Progress {
	p := Progress{Total: len(steps)}
	for _, s := range steps {
		if s.Done {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(100 * float64(p.Completed) / float64(p.Total)))
	}
	return p
}

// Bucket rounds Percent down to the nearest milestone.
func (p Progress) Bucket() int {
	return p.Percent / MilestoneStep * MilestoneStep
}

func (p Progress) Complete() bool {
	return p.Total > 0 && p.Percent == 100
}
