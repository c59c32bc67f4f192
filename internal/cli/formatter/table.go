package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	tableColGap      = 2
	tableMaxColWidth = 40
)

// RenderTable lays out headers and rows in padded columns under a dim rule.
// Widths are measured on visible text, so styled cells line up, and cells
// wider than tableMaxColWidth are cut with an ellipsis.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				cells[r][i] = clipCell(row[i])
			}
			widths[i] = max(widths[i], lipgloss.Width(cells[r][i]))
		}
	}

	gap := strings.Repeat(" ", tableColGap)
	line := func(parts []string, style func(i int, s string) string) string {
		out := make([]string, len(parts))
		for i, p := range parts {
			s := style(i, p)
			if i < len(parts)-1 {
				s += strings.Repeat(" ", widths[i]-lipgloss.Width(p))
			}
			out[i] = s
		}
		return strings.Join(out, gap) + "\n"
	}

	var b strings.Builder
	b.WriteString(line(headers, func(_ int, s string) string { return StyleHeader.Render(s) }))

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	b.WriteString(line(rule, func(_ int, s string) string { return StyleDim.Render(s) }))

	for _, row := range cells {
		b.WriteString(line(row, func(_ int, s string) string { return s }))
	}
	return b.String()
}

func clipCell(s string) string {
	if lipgloss.Width(s) <= tableMaxColWidth {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(tableMaxColWidth-1).Render(s) + "…"
}
