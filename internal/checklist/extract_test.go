package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_TableRowWithCheckbox(t *testing.T) {
	ex := Extract("| ☐ | Wash the car | 3 |", Options{})

	require.Len(t, ex.Items, 1)
	assert.Equal(t, "Wash the car", ex.Items[0].Text)
	assert.False(t, ex.Items[0].Done)
	assert.Empty(t, ex.Residual)
}

func TestExtract_TableRows(t *testing.T) {
	text := `| # | Task | Status |
|---|------|--------|
| 1 | Empty the shelves | ☑ |
| 2 | Sort | [ ] |
| 3 | [x] | 12 |`

	ex := Extract(text, Options{})

	require.Len(t, ex.Items, 2)
	assert.Equal(t, Item{Text: "Empty the shelves", Done: true}, ex.Items[0])
	assert.Equal(t, Item{Text: "Sort"}, ex.Items[1])
	// Header and separator rows carry no checkbox and stay as prose; the
	// numeric-only row is consumed.
	assert.Equal(t, "| # | Task | Status |\n|---|------|--------|", ex.Residual)
}

func TestExtract_TableRowLongestCellTieBreak(t *testing.T) {
	ex := Extract("| ☐ | abcd | wxyz |", Options{})

	require.Len(t, ex.Items, 1)
	assert.Equal(t, "abcd", ex.Items[0].Text)
}

func TestExtract_ListStyles(t *testing.T) {
	text := `Here is your plan:

- [ ] Buy boxes
* [X] Label boxes
- Tape boxes
* Stack boxes
1. Load van
2) Drive
Good luck!`

	ex := Extract(text, Options{})

	assert.Equal(t, []Item{
		{Text: "Buy boxes"},
		{Text: "Label boxes", Done: true},
		{Text: "Tape boxes"},
		{Text: "Stack boxes"},
		{Text: "Load van"},
		{Text: "Drive"},
	}, ex.Items)
	assert.Equal(t, "Here is your plan:\nGood luck!", ex.Residual)
}

func TestExtract_SectionHeadersConsumed(t *testing.T) {
	text := `- Phase one:
- Good examples of labels
1. Requirements for the move
- notes on parking
2. Context
- Pack kitchen`

	ex := Extract(text, Options{})

	assert.Equal(t, []Item{{Text: "Pack kitchen"}}, ex.Items)
	assert.Empty(t, ex.Residual)
}

func TestExtract_Headings(t *testing.T) {
	text := "### Prepare\n#### Too deep\n## Too shallow"

	off := Extract(text, Options{})
	assert.Empty(t, off.Items)
	assert.Equal(t, "#### Too deep\n## Too shallow", off.Residual)

	on := Extract(text, Options{HeadingsAsSteps: true})
	assert.Equal(t, []Item{{Text: "Prepare"}}, on.Items)
}

func TestExtract_NeverEmitsEmptyAfterSanitize(t *testing.T) {
	text := "- <br>\n- ``\n1. \"\"\n| ☐ | <i></i> |\n- real step"

	ex := Extract(text, Options{})

	require.Len(t, ex.Items, 1)
	assert.Equal(t, "real step", ex.Items[0].Text)
	for _, it := range Parse(text, Options{}) {
		assert.NotEmpty(t, it.Text)
	}
}

func TestExtract_CRLF(t *testing.T) {
	ex := Extract("- one\r\n- two\r\n", Options{})

	assert.Equal(t, []Item{{Text: "one"}, {Text: "two"}}, ex.Items)
}

func TestParse_ScenarioDuplicateAndChecked(t *testing.T) {
	items := Parse("1. Buy boxes\n2. Buy boxes\n- [x] Label boxes", Options{HeadingsAsSteps: true})

	assert.Equal(t, []Item{
		{ID: "step-1", Text: "Buy boxes"},
		{ID: "step-2", Text: "Label boxes", Done: true},
	}, items)
}
