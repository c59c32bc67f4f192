package checklist

import (
	"fmt"
	"regexp"
	"strings"
)

var syntheticIDRe = regexp.MustCompile(`^step-\d+$`)

// Item is a checklist candidate before it is attached to a message.
// ID is empty unless the upstream payload supplied one.
type Item struct {
	ID   string
	Text string
	Done bool
}

// Key is the dedup identity of a step text: trimmed, whitespace-collapsed,
// lower-cased.
func Key(text string) string {
	return strings.ToLower(collapseSpace(text))
}

// Dedupe keeps the first item per Key in original order, then renumbers
// synthetic ids as step-1..step-n over the survivors. Upstream ids are kept.
// Dedupe(Dedupe(x)) == Dedupe(x).
func Dedupe(items []Item) []Item {
	seen := make(map[string]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		k := Key(it.Text)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	for i := range out {
		if out[i].ID == "" || syntheticIDRe.MatchString(out[i].ID) {
			out[i].ID = fmt.Sprintf("step-%d", i+1)
		}
	}
	return out
}
