package dialogue

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTitleLen  = 30
	minTitleLen  = 4
	defaultTitle = "Task"
)

var courtesyRe = regexp.MustCompile(`(?i)^(i want to|i need to|help me|can you|could you)\b\s*`)

// ExtractTitle derives a short conversation title from captured task text.
func ExtractTitle(task string) string {
	s := strings.Join(strings.Fields(task), " ")
	s = courtesyRe.ReplaceAllString(s, "")

	if utf8.RuneCountInString(s) > maxTitleLen {
		s = string([]rune(s)[:maxTitleLen])
	}
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) < minTitleLen {
		return defaultTitle
	}

	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
