package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tasktamer/internal/checklist"
	"github.com/alexanderramin/tasktamer/internal/domain"
	"github.com/alexanderramin/tasktamer/internal/llm"
)

// AssistantService turns dialogue turns into upstream completions and
// normalizes the replies.
type AssistantService interface {
	// Breakdown asks for a checklist for task.
	Breakdown(ctx context.Context, task string, history []*domain.Message) (checklist.Reply, error)

	// Refine regenerates the checklist with extra detail from the user.
	Refine(ctx context.Context, task, detail string, history []*domain.Message) (checklist.Reply, error)

	// Chat forwards free-form input. Replies are kept as plain text.
	Chat(ctx context.Context, input string, history []*domain.Message) (checklist.Reply, error)
}

type assistantService struct {
	client llm.Client
	model  string
}

// NewAssistantService creates an AssistantService. An empty model uses the
// client's configured default.
func NewAssistantService(client llm.Client, model string) AssistantService {
	return &assistantService{client: client, model: model}
}

func (s *assistantService) Breakdown(ctx context.Context, task string, history []*domain.Message) (checklist.Reply, error) {
	return s.complete(ctx, llm.TaskBreakdown, buildBreakdownPrompt(task), history, checklist.Options{HeadingsAsSteps: true})
}

func (s *assistantService) Refine(ctx context.Context, task, detail string, history []*domain.Message) (checklist.Reply, error) {
	return s.complete(ctx, llm.TaskRefine, buildRefinePrompt(task, detail), history, checklist.Options{HeadingsAsSteps: true})
}

func (s *assistantService) Chat(ctx context.Context, input string, history []*domain.Message) (checklist.Reply, error) {
	return s.complete(ctx, llm.TaskChat, input, history, checklist.Options{TextOnly: true})
}

func (s *assistantService) complete(ctx context.Context, task llm.TaskType, prompt string, history []*domain.Message, opts checklist.Options) (checklist.Reply, error) {
	resp, err := s.client.Complete(ctx, llm.CompletionRequest{
		Task:    task,
		Prompt:  prompt,
		History: toTurns(history),
		Model:   s.model,
	})
	if err != nil {
		// llm errors already read as the user-facing cause.
		return checklist.Reply{}, err
	}
	return checklist.Normalize(resp.Payload, opts), nil
}

// toTurns maps conversation history onto upstream turns. Checklist messages
// have no display text, so their steps are rendered back as a list.
func toTurns(history []*domain.Message) []llm.Turn {
	turns := make([]llm.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, llm.Turn{Role: string(m.Role), Text: turnText(m)})
	}
	return turns
}

func turnText(m *domain.Message) string {
	if !m.HasSteps() {
		return m.Text
	}
	var b strings.Builder
	if m.Text != "" {
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	for i, step := range m.Steps {
		if i > 0 {
			b.WriteString("\n")
		}
		mark := " "
		if step.Done {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s", mark, step.Text)
	}
	return b.String()
}
