package dialogue

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tasktamer/internal/checklist"
	"github.com/alexanderramin/tasktamer/internal/domain"
	"github.com/alexanderramin/tasktamer/internal/motivation"
)

// Canned assistant replies.
const (
	ReplyGreeting      = "What task do you need to break down?"
	ReplyAskForTask    = "Please tell me the task you want simplified into actionable subtasks."
	ReplyTaskCaptured  = "Got it. Type 1 to break into subtasks with checkboxes, or add more details for a better checklist."
	ReplyAskMoreDetail = "Please add more details about the task, or type 1 when you're ready to break it into subtasks."
	ReplyDifferentTask = "This looks like a different task. Please open a new chat for each distinct task."
	ReplyOfferDecision = "Reply 1 to break into subtasks (with checkboxes). Reply 0 to continue without subtasks."
	failurePrefix      = "Failed to reach AI: "
)

var (
	acceptRe = regexp.MustCompile(`^\s*1\s*$`)
)

// ErrEmptyInput is returned when the user sends only whitespace.
var ErrEmptyInput = errors.New("input is empty")

// Assistant reaches the upstream model. Replies are already normalized.
type Assistant interface {
	Breakdown(ctx context.Context, task string, history []*domain.Message) (checklist.Reply, error)
	Refine(ctx context.Context, task, detail string, history []*domain.Message) (checklist.Reply, error)
	Chat(ctx context.Context, input string, history []*domain.Message) (checklist.Reply, error)
}

// Motivator returns a motivation line for a checklist state. It never fails.
type Motivator interface {
	Get(ctx context.Context, req motivation.Request) string
}

// Turn is what one call to SendUserInput appended to the conversation.
type Turn struct {
	Messages []*domain.Message
	Phase    domain.PhaseKind
	// Failed is set when the upstream request failed and the phase was kept.
	Failed bool
}

// Reply returns the last assistant message of the turn, or nil.
func (t Turn) Reply() *domain.Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == domain.RoleAssistant {
			return t.Messages[i]
		}
	}
	return nil
}

// ToggleResult reports the checklist state after a toggle.
type ToggleResult struct {
	Changed    bool
	Progress   domain.Progress
	Motivation string
	Completed  bool
}

// Engine drives the per-conversation dialogue state machine. It keeps no
// per-conversation state of its own; callers serialize operations on the
// same conversation.
type Engine struct {
	assistant Assistant
	motivator Motivator
	phrases   PhraseSet
	listeners []Listener
	now       func() time.Time
	newID     func() string
}

// NewEngine creates an Engine. A nil motivator disables motivation lines.
func NewEngine(assistant Assistant, motivator Motivator, phrases PhraseSet, listeners ...Listener) *Engine {
	return &Engine{
		assistant: assistant,
		motivator: motivator,
		phrases:   phrases.withDefaults(),
		listeners: listeners,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

// SendUserInput appends the user's message and advances the conversation.
// Upstream failures become an assistant message and leave the phase as it
// was; the only error returned is ErrEmptyInput.
func (e *Engine) SendUserInput(ctx context.Context, conv *domain.Conversation, text string) (Turn, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return Turn{}, ErrEmptyInput
	}

	history := conv.Messages[:len(conv.Messages):len(conv.Messages)]
	t := &turnBuilder{engine: e, conv: conv}
	t.append(domain.RoleUser, input, nil)

	switch p := conv.CurrentPhase().(type) {
	case domain.Empty:
		e.handleEmpty(t, input)
	case domain.AwaitingTask:
		conv.Phase = domain.AwaitingBreakdown{Task: input}
		t.say(ReplyTaskCaptured)
	case domain.AwaitingBreakdown:
		e.handleBreakdownDecision(ctx, t, p, input, history)
	case domain.ChecklistActive:
		e.handleChecklistActive(ctx, t, p, input, history)
	case domain.NormalChat:
		e.handleNormalChat(ctx, t, p, input, history)
	}

	return t.turn(), nil
}

func (e *Engine) handleEmpty(t *turnBuilder, input string) {
	t.conv.Phase = domain.AwaitingTask{}
	if e.phrases.Greeting(input) {
		t.say(ReplyGreeting)
		return
	}
	t.say(ReplyAskForTask)
}

func (e *Engine) handleBreakdownDecision(ctx context.Context, t *turnBuilder, p domain.AwaitingBreakdown, input string, history []*domain.Message) {
	switch {
	case acceptRe.MatchString(input):
		reply, err := e.assistant.Breakdown(ctx, p.Task, history)
		if err != nil {
			t.fail(err)
			return
		}
		t.conv.Title = ExtractTitle(p.Task)
		t.reply(reply)
		if reply.HasSteps() {
			t.conv.Phase = domain.ChecklistActive{Task: p.Task}
		} else {
			t.conv.Phase = domain.NormalChat{Task: p.Task}
		}
	default:
		// Extra detail, or "0" after an offer, leaves the captured task as is.
		t.say(ReplyAskMoreDetail)
	}
}

func (e *Engine) handleChecklistActive(ctx context.Context, t *turnBuilder, p domain.ChecklistActive, input string, history []*domain.Message) {
	if e.phrases.DifferentTask(input, p.Task) {
		t.say(ReplyDifferentTask)
		return
	}
	reply, err := e.assistant.Refine(ctx, p.Task, input, history)
	if err != nil {
		t.fail(err)
		return
	}
	t.reply(reply)
}

func (e *Engine) handleNormalChat(ctx context.Context, t *turnBuilder, p domain.NormalChat, input string, history []*domain.Message) {
	reply, err := e.assistant.Chat(ctx, input, history)
	if err != nil {
		t.fail(err)
		return
	}
	t.reply(reply)
	if e.phrases.BreakdownOffer(reply.Text) {
		t.conv.Phase = domain.AwaitingBreakdown{Task: p.Task}
		t.say(ReplyOfferDecision)
	}
}

// ToggleStep flips one step's done flag. An unknown message or step id is a
// no-op. Crossing a new progress milestone refreshes the message's
// motivation line; reaching 100% notifies listeners.
func (e *Engine) ToggleStep(ctx context.Context, conv *domain.Conversation, messageID, stepID string) (ToggleResult, error) {
	msg := conv.FindMessage(messageID)
	if msg == nil || !msg.ToggleStep(stepID) {
		return ToggleResult{}, nil
	}
	conv.UpdatedAt = e.now()

	p := msg.Progress()
	if next, ok := motivation.NextMilestone(msg.LastMilestone, p); ok && e.motivator != nil {
		msg.Motivation = e.motivator.Get(ctx, motivation.Request{TaskTitle: conv.TaskTitle(), Progress: p})
		msg.LastMilestone = next
	}

	res := ToggleResult{
		Changed:    true,
		Progress:   p,
		Motivation: msg.Motivation,
		Completed:  p.Complete(),
	}
	if res.Completed {
		for _, l := range e.listeners {
			l.OnChecklistCompleted(conv.ID, msg.ID)
		}
	}
	return res, nil
}

// turnBuilder collects the messages appended during one turn.
type turnBuilder struct {
	engine *Engine
	conv   *domain.Conversation
	added  []*domain.Message
	failed bool
}

func (t *turnBuilder) append(role domain.Role, text string, steps []domain.Step) {
	m := &domain.Message{
		ID:        t.engine.newID(),
		Role:      role,
		Text:      text,
		Steps:     steps,
		CreatedAt: t.engine.now(),
	}
	t.conv.Append(m)
	t.added = append(t.added, m)
}

func (t *turnBuilder) say(text string) {
	t.append(domain.RoleAssistant, text, nil)
}

func (t *turnBuilder) reply(r checklist.Reply) {
	t.append(domain.RoleAssistant, r.Text, r.Steps)
}

func (t *turnBuilder) fail(err error) {
	t.failed = true
	t.say(failurePrefix + err.Error())
}

func (t *turnBuilder) turn() Turn {
	return Turn{
		Messages: t.added,
		Phase:    t.conv.CurrentPhase().Kind(),
		Failed:   t.failed,
	}
}
