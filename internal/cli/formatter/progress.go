package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders a bar of width cells. The bar is colored by
// percentage: green >66%, yellow 33-66%, red <33%.
func RenderBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 0.33 {
		style = StyleRed
	} else if pct < 0.66 {
		style = StyleYellow
	}
	return style.Render(bar)
}

// ProgressLabel is the plain footer text, e.g. "3/5 completed (60%)".
func ProgressLabel(p domain.Progress) string {
	return fmt.Sprintf("%d/%d completed (%d%%)", p.Completed, p.Total, p.Percent)
}

// RenderProgress renders the checklist footer: bar plus label.
func RenderProgress(p domain.Progress, width int) string {
	if p.Total == 0 {
		return ""
	}
	return RenderBar(float64(p.Percent)/100, width) + " " + Dim(ProgressLabel(p))
}
