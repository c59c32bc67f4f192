package checklist

import (
	"regexp"
	"strings"
)

var (
	htmlTagRe       = regexp.MustCompile(`<[^>]+>`)
	wrapQuoteRe     = regexp.MustCompile("^[\"'`]+|[\"'`]+$")
	leadingMarkRe   = regexp.MustCompile(`^\s*(?:[-*]\s+|\d+[.)]\s+|\[(?: |x|X)\](?:\s+|$))`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// Sanitize cleans one candidate step: HTML tags, wrapping quotes or
// backticks, and any stacked list/checkbox/number prefixes are removed,
// then whitespace is collapsed. An empty result means the step must be dropped.
func Sanitize(text string) string {
	s := htmlTagRe.ReplaceAllString(text, "")
	s = wrapQuoteRe.ReplaceAllString(s, "")
	return collapseSpace(stripLeadingMarks(s))
}

// stripLeadingMarks removes prefixes until none remain, so "- [ ] x"
// becomes "x".
func stripLeadingMarks(s string) string {
	for {
		next := leadingMarkRe.ReplaceAllString(s, "")
		if next == s {
			return s
		}
		s = next
	}
}

// SanitizeItems sanitizes every item and drops the ones left empty.
func SanitizeItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		it.Text = Sanitize(it.Text)
		if it.Text == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(s, " "))
}
