package cli

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktamer/internal/dialogue"
	"github.com/alexanderramin/tasktamer/internal/domain"
	"github.com/alexanderramin/tasktamer/internal/teatest"
)

func newChatDriver(t *testing.T, env *testEnv, opts ...teatest.Option) *teatest.Driver {
	t.Helper()
	conv, err := env.app.Conversations.Latest(context.Background())
	require.NoError(t, err)

	opts = append([]teatest.Option{
		teatest.WithSize(100, 40),
		teatest.WithCmdTimeout(2 * time.Second),
	}, opts...)
	d := teatest.New(t, newChatModel(context.Background(), env.app, conv), opts...)
	d.DrainInit()
	return d
}

func chatOf(d *teatest.Driver) *chatModel {
	return d.Model.(*chatModel)
}

func TestChatModel_EmptyConversationHint(t *testing.T) {
	env := newTestEnv(t)
	d := newChatDriver(t, env)

	view := d.View()
	assert.Contains(t, view, "Chat 1")
	assert.Contains(t, view, "New")
	assert.Contains(t, view, "Say hello")
}

func TestChatModel_Greeting(t *testing.T) {
	env := newTestEnv(t)
	d := newChatDriver(t, env)

	d.Submit("hello")

	view := d.View()
	assert.Contains(t, view, "You")
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, dialogue.ReplyGreeting)
	assert.Contains(t, view, "Waiting for task")
	assert.Empty(t, chatOf(d).input.Value(), "input is cleared after sending")
}

func TestChatModel_BreakdownAndToggle(t *testing.T) {
	env := newTestEnv(t)
	env.chat.ReplyText("- [ ] Sort tools\n- [ ] Sweep floor")
	env.motivator.ReplyText("Halfway there, nice rhythm.")
	d := newChatDriver(t, env)

	d.Submit("hello")
	d.Submit("clean my garage")
	d.Submit("1")

	view := d.View()
	assert.Contains(t, view, "Clean my garage")
	assert.Contains(t, view, "[ ] Sort tools")
	assert.Contains(t, view, "[ ] Sweep floor")
	assert.Contains(t, view, "0/2 completed (0%)")

	d.Submit("/toggle 1")

	view = d.View()
	assert.Contains(t, view, "[x] Sort tools")
	assert.Contains(t, view, "1/2 completed (50%)")
	assert.Contains(t, view, "Halfway there, nice rhythm.")

	// The toggle is persisted, not just rendered.
	conv, err := env.app.Conversations.Get(context.Background(), chatOf(d).conv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Progress{Completed: 1, Total: 2, Percent: 50}, conv.LatestChecklist().Progress())
}

func TestChatModel_CompletionNotice(t *testing.T) {
	env := newTestEnv(t)
	env.chat.ReplyText("- [ ] Sort tools")
	env.motivator.ReplyText("Garage conquered, enjoy it.")
	d := newChatDriver(t, env)

	d.Submit("hello")
	d.Submit("clean my garage")
	d.Submit("1")
	d.Submit("/toggle 1")

	view := d.View()
	assert.Contains(t, view, "1/1 completed (100%)")
	assert.Contains(t, view, "Checklist complete!")
}

func TestChatModel_ToggleInvalidStep(t *testing.T) {
	env := newTestEnv(t)
	d := newChatDriver(t, env)

	d.Submit("/toggle 1")
	assert.Contains(t, d.View(), "There is no checklist yet.")

	env.chat.ReplyText("- [ ] Sort tools")
	d.Submit("hello")
	d.Submit("clean my garage")
	d.Submit("1")

	d.Submit("/toggle 5")
	assert.Contains(t, d.View(), "No step 5 on the current checklist.")

	d.Submit("/toggle")
	assert.Contains(t, d.View(), "Usage: /toggle N")
	assert.Equal(t, 0, env.motivator.Pending())
	assert.Empty(t, env.motivator.Requests())
}

func TestChatModel_NewConversation(t *testing.T) {
	env := newTestEnv(t)
	d := newChatDriver(t, env)
	first := chatOf(d).conv.ID

	d.Submit("hello")
	d.Submit("/new")

	m := chatOf(d)
	assert.NotEqual(t, first, m.conv.ID)
	assert.Equal(t, "Chat 2", m.conv.Title)
	assert.NotContains(t, d.View(), dialogue.ReplyGreeting)
}

func TestChatModel_UpstreamFailureShownAsReply(t *testing.T) {
	env := newTestEnv(t)
	d := newChatDriver(t, env)

	d.Submit("hello")
	d.Submit("clean my garage")
	d.Submit("1")

	view := d.View()
	assert.Contains(t, view, "Failed to reach AI: ")
	assert.Contains(t, view, "Ready to break down", "phase is unchanged after a failure")
}

func TestChatModel_BlankInputIgnored(t *testing.T) {
	env := newTestEnv(t)
	d := newChatDriver(t, env)

	d.Submit("   ")

	assert.Empty(t, chatOf(d).conv.Messages)
	assert.False(t, chatOf(d).loading)
}

func TestChatModel_InputIgnoredWhileLoading(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conv, err := env.app.Conversations.Create(ctx, "")
	require.NoError(t, err)
	for _, text := range []string{"hello", "clean my garage"} {
		_, err := env.app.Conversations.Send(ctx, conv.ID, text)
		require.NoError(t, err)
	}

	block := make(chan struct{})
	defer close(block)
	env.chat.Block = block
	env.chat.ReplyText("- [ ] Sort tools")

	// A timeout below the spinner interval leaves the request in flight.
	d := newChatDriver(t, env, teatest.WithCmdTimeout(20*time.Millisecond))
	d.Submit("1")

	require.True(t, chatOf(d).loading, "the blocked request is still in flight")
	view := d.View()
	assert.Contains(t, view, "Thinking...")
	assert.Contains(t, view, "You")

	d.Type("more")
	assert.Empty(t, chatOf(d).input.Value())
}

func TestChatModel_Quit(t *testing.T) {
	for _, tc := range []struct {
		name string
		send func(d *teatest.Driver)
	}{
		{"slash command", func(d *teatest.Driver) { d.Submit("/quit") }},
		{"escape", func(d *teatest.Driver) { d.PressEsc() }},
		{"ctrl+c", func(d *teatest.Driver) { d.PressCtrlC() }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			d := newChatDriver(t, env)

			tc.send(d)
			assert.True(t, d.Quitting)
		})
	}
}

func TestChatModel_WindowResize(t *testing.T) {
	env := newTestEnv(t)
	d := newChatDriver(t, env)

	d.Send(tea.WindowSizeMsg{Width: 60, Height: 12})

	m := chatOf(d)
	assert.Equal(t, 60, m.view.Width)
	assert.Equal(t, 6, m.view.Height)
}
