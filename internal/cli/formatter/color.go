package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleDone   = lipgloss.NewStyle().Foreground(ColorDim).Strikethrough(true)
)

// RoleStyle returns the label style for a message author.
func RoleStyle(role domain.Role) lipgloss.Style {
	if role == domain.RoleUser {
		return StyleBlue.Bold(true)
	}
	return StylePurple.Bold(true)
}

// RoleLabel returns the styled speaker prefix, "You" or "Assistant".
func RoleLabel(role domain.Role) string {
	if role == domain.RoleUser {
		return RoleStyle(role).Render("You")
	}
	return RoleStyle(role).Render("Assistant")
}

// PhaseBadge renders the dialogue phase as a short colored label.
func PhaseBadge(kind domain.PhaseKind) string {
	switch kind {
	case domain.PhaseEmpty:
		return StyleDim.Render("○ New")
	case domain.PhaseAwaitingTask:
		return StyleYellow.Render("◌ Waiting for task")
	case domain.PhaseAwaitingBreakdown:
		return StyleYellow.Render("◐ Ready to break down")
	case domain.PhaseChecklistActive:
		return StyleGreen.Render("● Checklist")
	case domain.PhaseNormalChat:
		return StyleBlue.Render("● Chat")
	default:
		return StyleDim.Render(string(kind))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
