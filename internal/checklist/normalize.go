package checklist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

const emptyResponseText = "(empty response)"

// Reply is an upstream completion reconciled into display text and an
// optional checklist. When Steps is non-empty, Text is empty.
type Reply struct {
	Text  string
	Steps []domain.Step
}

// HasSteps reports whether the reply carries a checklist.
func (r Reply) HasSteps() bool {
	return len(r.Steps) > 0
}

// Normalize reconciles an upstream payload of unknown shape. Text is taken
// from, in order, "text", "answer", "choices[0].message.content", or the
// first assistant entry of "messages". A non-empty explicit "steps" list wins
// over steps extracted from that text. Payloads matching no shape are shown
// verbatim.
func Normalize(payload []byte, opts Options) Reply {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return Reply{Text: strings.TrimSpace(string(payload))}
	}

	switch v := data.(type) {
	case nil:
		return Reply{Text: emptyResponseText}
	case string:
		if v == "" {
			return Reply{Text: emptyResponseText}
		}
		return Reply{Text: v}
	case map[string]any:
		return normalizeObject(v, payload, opts)
	default:
		return Reply{Text: compactJSON(payload)}
	}
}

func normalizeObject(obj map[string]any, payload []byte, opts Options) Reply {
	text, _ := resolveText(obj)

	if !opts.TextOnly {
		items := Dedupe(SanitizeItems(explicitItems(obj["steps"])))
		if len(items) == 0 && text != "" {
			items = Parse(text, opts)
		}
		if len(items) > 0 {
			return Reply{Steps: ToSteps(items)}
		}
	}

	if text == "" {
		return Reply{Text: compactJSON(payload)}
	}
	return Reply{Text: text}
}

// ResolveText returns the completion text of a payload using the same shape
// preference as Normalize.
func ResolveText(payload []byte) (string, bool) {
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return "", false
	}
	return resolveText(obj)
}

func resolveText(obj map[string]any) (string, bool) {
	if s, ok := obj["text"].(string); ok {
		return s, true
	}
	if s, ok := obj["answer"].(string); ok {
		return s, true
	}
	if choices, ok := obj["choices"].([]any); ok && len(choices) > 0 {
		if first, ok := choices[0].(map[string]any); ok {
			if msg, ok := first["message"].(map[string]any); ok {
				if s, ok := msg["content"].(string); ok && s != "" {
					return s, true
				}
			}
		}
	}
	if msgs, ok := obj["messages"].([]any); ok {
		for _, raw := range msgs {
			m, ok := raw.(map[string]any)
			if !ok || m["role"] != "assistant" {
				continue
			}
			s, ok := m["content"].(string)
			return s, ok
		}
	}
	return "", false
}

// explicitItems converts an upstream "steps" list. Ids default to empty so
// Dedupe can number them; done is coerced with JavaScript-like truthiness.
func explicitItems(raw any) []Item {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	items := make([]Item, 0, len(list))
	for _, entry := range list {
		switch v := entry.(type) {
		case string:
			items = append(items, Item{Text: v})
		case map[string]any:
			it := Item{ID: idString(v["id"]), Done: truthy(v["done"])}
			if s, ok := v["text"].(string); ok {
				it.Text = s
			} else if v["text"] != nil {
				it.Text = fmt.Sprint(v["text"])
			}
			items = append(items, it)
		case nil:
		default:
			items = append(items, Item{Text: fmt.Sprint(v)})
		}
	}
	return items
}

func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return fmt.Sprintf("%g", id)
	default:
		return fmt.Sprint(id)
	}
}

func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		return b != ""
	default:
		return true
	}
}

func compactJSON(payload []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, payload); err != nil {
		return strings.TrimSpace(string(payload))
	}
	return buf.String()
}

// Parse runs extraction, sanitization and deduplication over free text.
func Parse(text string, opts Options) []Item {
	return Dedupe(SanitizeItems(Extract(text, opts).Items))
}

// ToSteps converts pipeline items into message steps.
func ToSteps(items []Item) []domain.Step {
	steps := make([]domain.Step, len(items))
	for i, it := range items {
		steps[i] = domain.Step{ID: it.ID, Text: it.Text, Done: it.Done}
	}
	return steps
}
