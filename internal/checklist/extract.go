package checklist

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	lineSplitRe      = regexp.MustCompile(`\r?\n`)
	tableRowRe       = regexp.MustCompile(`^\s*\|(.+)\|\s*$`)
	checkboxBulletRe = regexp.MustCompile(`^\s*[-*]\s+\[( |x|X)\]\s+(.*)$`)
	plainBulletRe    = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)
	numberedRe       = regexp.MustCompile(`^\s*\d+[.)]\s+(.*)$`)
	headingRe        = regexp.MustCompile(`^\s*#{3}\s+(.*)$`)
	sectionLeadRe    = regexp.MustCompile(`(?i)^(good examples|bad examples|requirements|notes|context)\b`)
	uncheckedCellRe  = regexp.MustCompile(`^(☐|\[ \])$`)
	checkedCellRe    = regexp.MustCompile(`^(☑|\[[xX]\])$`)
	numericCellRe    = regexp.MustCompile(`^\d+$`)
)

// Options tunes extraction for the reply being parsed.
type Options struct {
	// HeadingsAsSteps turns "### text" lines into steps. Enabled for
	// checklist-generation replies; otherwise such headings are consumed.
	HeadingsAsSteps bool

	// TextOnly disables step recovery in Normalize; the reply is shown as
	// plain text. Used for free-form chat turns.
	TextOnly bool
}

// Extraction is the outcome of scanning a reply for list-like lines.
type Extraction struct {
	Items []Item
	// Residual is the prose left after list lines were removed.
	Residual string
}

type lineKind int

const (
	lineProse lineKind = iota
	lineStep
	lineConsumed
)

// Extract scans text top to bottom and classifies every non-blank line. The
// first matching rule wins: table row with a checkbox cell, checkbox bullet,
// plain bullet, numbered item, level-3 heading, prose. Candidates whose text
// would sanitize to nothing are never emitted.
func Extract(text string, opts Options) Extraction {
	var ex Extraction
	var prose []string

	for _, line := range lineSplitRe.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kind, item := classifyLine(line, opts)
		switch kind {
		case lineStep:
			if Sanitize(item.Text) != "" {
				ex.Items = append(ex.Items, item)
			}
		case lineProse:
			prose = append(prose, line)
		}
	}

	ex.Residual = strings.TrimSpace(strings.Join(prose, "\n"))
	return ex
}

func classifyLine(line string, opts Options) (lineKind, Item) {
	if tableRowRe.MatchString(line) {
		if kind, item, ok := classifyTableRow(line); ok {
			return kind, item
		}
	}

	if m := checkboxBulletRe.FindStringSubmatch(line); m != nil {
		return lineStep, Item{Text: strings.TrimSpace(m[2]), Done: strings.EqualFold(m[1], "x")}
	}

	if m := plainBulletRe.FindStringSubmatch(line); m != nil {
		return listEntry(m[1])
	}

	if m := numberedRe.FindStringSubmatch(line); m != nil {
		return listEntry(m[1])
	}

	if m := headingRe.FindStringSubmatch(line); m != nil {
		if opts.HeadingsAsSteps {
			return lineStep, Item{Text: strings.TrimSpace(m[1])}
		}
		return lineConsumed, Item{}
	}

	return lineProse, Item{}
}

// listEntry emits a bullet or numbered entry unless it reads as a section
// header, which is swallowed.
func listEntry(raw string) (lineKind, Item) {
	content := strings.TrimSpace(raw)
	if isSectionHeader(content) {
		return lineConsumed, Item{}
	}
	return lineStep, Item{Text: content}
}

func isSectionHeader(content string) bool {
	return strings.HasSuffix(content, ":") || sectionLeadRe.MatchString(content)
}

// classifyTableRow handles "| ☐ | Wash the car | 3 |". ok is false when the
// row has no checkbox cell and should fall through to the other rules.
func classifyTableRow(line string) (lineKind, Item, bool) {
	var cells []string
	for _, c := range strings.Split(strings.TrimSpace(line), "|") {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}

	var checked, hasBox bool
	best := ""
	for _, c := range cells {
		switch {
		case checkedCellRe.MatchString(c):
			checked, hasBox = true, true
		case uncheckedCellRe.MatchString(c):
			hasBox = true
		case numericCellRe.MatchString(c):
		default:
			if utf8.RuneCountInString(c) > utf8.RuneCountInString(best) {
				best = c
			}
		}
	}

	if !hasBox {
		return lineProse, Item{}, false
	}
	if best == "" {
		return lineConsumed, Item{}, true
	}
	return lineStep, Item{Text: best, Done: checked}, true
}
