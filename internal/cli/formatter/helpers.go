package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// ShortIDLen is how many leading characters of an ID are displayed. The CLI
// accepts any unique prefix, so this is enough to address a conversation.
const ShortIDLen = 8

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Padding(1, 2)

// RenderBox frames content in a rounded border, with an optional title line.
func RenderBox(title, content string) string {
	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// HumanTimestamp describes t relative to now.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

// HumanTimestampFrom describes t relative to a fixed now: minutes and hours
// within the same day, then "Yesterday", a weekday within the last week, and
// a date after that or for future times.
func HumanTimestampFrom(t, now time.Time) string {
	t = t.In(now.Location())
	diff := now.Sub(t)
	days := calendarDays(t, now)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case days == 0:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case days == 1:
		return "Yesterday"
	case days < 7:
		return t.Weekday().String()
	default:
		return t.Format("Jan 2, 2006")
	}
}

func calendarDays(from, to time.Time) int {
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// TruncID returns the displayed prefix of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > ShortIDLen {
		id = id[:ShortIDLen]
	}
	return StyleDim.Render(id)
}
