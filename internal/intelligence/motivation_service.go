package intelligence

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/tasktamer/internal/checklist"
	"github.com/alexanderramin/tasktamer/internal/llm"
	"github.com/alexanderramin/tasktamer/internal/motivation"
)

const (
	minMotivationLen = 8
	maxMotivationLen = 50
)

var (
	wrappingQuoteRe = regexp.MustCompile(`^["']|["']$`)
	// Generic praise openers, including "You're"/"You've", are dropped so the
	// rest of the line can stand.
	bannedOpenerRe = regexp.MustCompile(`(?i)^(great|awesome|keep|you(?:['’](?:re|ve|ll|d))?|good|amazing|excellent|wonderful|fantastic|outstanding|incredible|brilliant)([^\w'’]|$)`)
)

// MotivationService generates short progress lines for a checklist.
type MotivationService interface {
	Generate(ctx context.Context, req motivation.Request) (string, error)
}

type motivationService struct {
	client llm.Client
	model  string
}

// NewMotivationService creates a MotivationService backed by an LLM client.
func NewMotivationService(client llm.Client, model string) MotivationService {
	return &motivationService{client: client, model: model}
}

func (s *motivationService) Generate(ctx context.Context, req motivation.Request) (string, error) {
	resp, err := s.client.Complete(ctx, llm.CompletionRequest{
		Task:   llm.TaskMotivation,
		Prompt: buildMotivationPrompt(req),
		Model:  s.model,
	})
	if err != nil {
		return "", fmt.Errorf("llm motivation generation failed: %w", err)
	}

	text, ok := checklist.ResolveText(resp.Payload)
	if !ok {
		return "", fmt.Errorf("%w: no text in motivation response", llm.ErrInvalidOutput)
	}
	return CleanMotivation(text)
}

// CleanMotivation strips wrapping quotes and a generic opener, then checks
// the remaining length in characters.
func CleanMotivation(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = wrappingQuoteRe.ReplaceAllString(s, "")
	if loc := bannedOpenerRe.FindStringIndex(s); loc != nil {
		s = strings.TrimLeftFunc(s[loc[1]:], func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		})
	}
	s = strings.TrimSpace(s)

	n := utf8.RuneCountInString(s)
	if n < minMotivationLen || n > maxMotivationLen {
		return "", fmt.Errorf("%w: motivation length %d outside [%d,%d]", llm.ErrInvalidOutput, n, minMotivationLen, maxMotivationLen)
	}
	return s, nil
}
