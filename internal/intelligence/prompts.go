package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktamer/internal/motivation"
)

// breakdownPrompt asks for a checkbox list. The wording only needs to steer
// the model toward line formats the checklist extractor recognizes.
const breakdownPrompt = `Break this task into smaller subtasks with progress tracking.

Task: %s

Reply with a markdown checklist, one actionable subtask per line, in the form "- [ ] subtask".
Keep each subtask short and concrete. Do not add section headers or commentary.`

const refinePrompt = `Update the checklist for this task using the new details.

Task: %s
New details: %s

Reply with the full revised markdown checklist, one actionable subtask per line, in the form "- [ ] subtask".
Do not add section headers or commentary.`

const victoryPrompt = `Generate ONE bold, brag-worthy victory line for: "%s"

Progress: %d/%d completed (%d%%)
Stage: %s

Requirements:
- Maximum 45 characters
- Include exactly ONE emoji (victory/celebration or task-related)
- Sound triumphant and proud; celebrate the user
- Avoid generic phrases like "keep going" or "great job"
- Be specific to the task or outcome
- Natural, not corporate

Good examples:
- "🏆 Flawless finish. You set the bar."
- "👑 Masterclass delivered."
- "🚀 Goal obliterated. Champion move."

Generate ONE message:`

const progressPrompt = `Generate ONE fresh, creative motivational message for: "%s"

Progress: %d/%d completed (%d%%)
Stage: %s

Requirements:
- Maximum 45 characters
- Include exactly ONE emoji (related to the actual task)
- Avoid generic phrases like "keep going", "great job", "you got this"
- Be specific to what they're actually doing
- Sound natural and authentic, not corporate
- Be encouraging but not overly enthusiastic

Good examples:
- "📝 Drafting excellence!"
- "🏠 Room transformation underway!"
- "🎯 Target locked and loaded!"

Bad examples: "Keep going!", "Great progress!", "You're doing amazing!"

Generate ONE specific motivational message:`

func buildBreakdownPrompt(task string) string {
	return fmt.Sprintf(breakdownPrompt, strings.TrimSpace(task))
}

func buildRefinePrompt(task, detail string) string {
	return fmt.Sprintf(refinePrompt, strings.TrimSpace(task), strings.TrimSpace(detail))
}

func buildMotivationPrompt(req motivation.Request) string {
	tmpl := progressPrompt
	if req.Victory() {
		tmpl = victoryPrompt
	}
	p := req.Progress
	return fmt.Sprintf(tmpl, req.TaskTitle, p.Completed, p.Total, p.Percent, req.Stage())
}
