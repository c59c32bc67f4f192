package dialogue

import (
	"regexp"
	"strings"
)

// PhraseSet holds the heuristic predicates the engine consults. Each one can
// be swapped independently of the state machine.
type PhraseSet struct {
	// Greeting reports whether the first input of a conversation is a hello.
	Greeting func(input string) bool

	// BreakdownOffer reports whether a chat reply offered to split the task.
	BreakdownOffer func(reply string) bool

	// DifferentTask reports whether input, sent while a checklist is active,
	// is about something other than task.
	DifferentTask func(input, task string) bool
}

var (
	greetingRe      = regexp.MustCompile(`(?i)^(hi|hello|hey|yo|hiya|greetings)\b`)
	differentTaskRe = regexp.MustCompile(`(?i)\b(new|another|different)\s+task\b|\bswitch\s+(the\s+)?task\b`)
)

var defaultOfferPhrases = []string{
	"should i break this down",
	"should we break this down",
	"want me to break this down",
	"would you like me to break this down",
	"break this into smaller tasks",
	"break this into subtasks",
}

// DefaultPhrases returns the stock English predicates.
func DefaultPhrases() PhraseSet {
	return PhraseSet{
		Greeting:       greetingRe.MatchString,
		BreakdownOffer: ContainsAny(defaultOfferPhrases...),
		DifferentTask:  differentTask,
	}
}

// ContainsAny builds a case-insensitive substring predicate.
func ContainsAny(phrases ...string) func(string) bool {
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return func(s string) bool {
		s = strings.ToLower(s)
		for _, p := range lowered {
			if strings.Contains(s, p) {
				return true
			}
		}
		return false
	}
}

func differentTask(input, task string) bool {
	if differentTaskRe.MatchString(input) {
		return true
	}
	return !strings.Contains(strings.ToLower(input), strings.ToLower(task))
}

// withDefaults fills unset predicates so a partial PhraseSet is usable.
func (p PhraseSet) withDefaults() PhraseSet {
	def := DefaultPhrases()
	if p.Greeting == nil {
		p.Greeting = def.Greeting
	}
	if p.BreakdownOffer == nil {
		p.BreakdownOffer = def.BreakdownOffer
	}
	if p.DifferentTask == nil {
		p.DifferentTask = def.DifferentTask
	}
	return p
}
