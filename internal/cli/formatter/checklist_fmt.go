package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

const progressBarWidth = 20

var boldRe = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// RenderInline renders **bold** spans; other text is left as is.
func RenderInline(text string) string {
	return boldRe.ReplaceAllStringFunc(text, func(m string) string {
		return StyleBold.Render(boldRe.FindStringSubmatch(m)[1])
	})
}

// FormatStep renders one numbered checklist line, e.g. " 2. [x] Sweep floor".
func FormatStep(n int, s domain.Step) string {
	if s.Done {
		return fmt.Sprintf("%2d. %s %s", n, StyleGreen.Render("[x]"), StyleDone.Render(boldRe.ReplaceAllString(s.Text, "$1")))
	}
	return fmt.Sprintf("%2d. %s %s", n, StyleDim.Render("[ ]"), RenderInline(s.Text))
}

// FormatChecklist renders the steps of m followed by the progress footer and
// motivation line. Steps are numbered from 1 in display order.
func FormatChecklist(m *domain.Message) string {
	if !m.HasSteps() {
		return ""
	}
	var b strings.Builder
	for i, s := range m.Steps {
		b.WriteString(FormatStep(i+1, s))
		b.WriteString("\n")
	}
	b.WriteString(RenderProgress(m.Progress(), progressBarWidth))
	if m.Motivation != "" {
		b.WriteString("\n")
		b.WriteString(StylePurple.Italic(true).Render(m.Motivation))
	}
	return b.String()
}

// FormatMessage renders a message with its speaker label.
func FormatMessage(m *domain.Message) string {
	var b strings.Builder
	b.WriteString(RoleLabel(m.Role))
	b.WriteString("\n")
	if text := strings.TrimSpace(m.Text); text != "" {
		b.WriteString(RenderInline(text))
		if m.HasSteps() {
			b.WriteString("\n")
		}
	}
	if m.HasSteps() {
		b.WriteString(FormatChecklist(m))
	}
	return b.String()
}

// FormatTranscript renders a conversation header and every message.
func FormatTranscript(c *domain.Conversation) string {
	var b strings.Builder
	b.WriteString(Header(c.Title))
	b.WriteString("\n")
	b.WriteString(PhaseBadge(c.CurrentPhase().Kind()))
	b.WriteString("  ")
	b.WriteString(TruncID(c.ID))
	b.WriteString("\n")
	for _, m := range c.Messages {
		b.WriteString("\n")
		b.WriteString(FormatMessage(m))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatConversationList renders conversations as a table, newest first as
// given.
func FormatConversationList(convs []*domain.Conversation) string {
	if len(convs) == 0 {
		return Dim("No conversations yet. Start one with: tasktamer new") + "\n"
	}
	rows := make([][]string, 0, len(convs))
	for _, c := range convs {
		rows = append(rows, []string{
			TruncID(c.ID),
			StyleFg.Render(c.Title),
			PhaseBadge(c.CurrentPhase().Kind()),
			Dim(HumanTimestamp(c.UpdatedAt)),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATE", "UPDATED"}, rows)
}
