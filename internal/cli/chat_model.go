package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tasktamer/internal/cli/formatter"
	"github.com/alexanderramin/tasktamer/internal/domain"
	"github.com/alexanderramin/tasktamer/internal/service"
)

const (
	chatHeaderHeight = 2
	chatFooterHeight = 4
)

type chatKeyMap struct {
	Send     key.Binding
	Quit     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var chatKeys = chatKeyMap{
	Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
}

type sendDoneMsg struct {
	res *service.SendResult
	err error
}

type toggleDoneMsg struct {
	out *service.ToggleOutcome
	err error
}

type switchConvMsg struct {
	conv *domain.Conversation
	err  error
}

// chatModel is the interactive view of one conversation. Service calls run
// as Cmds; input is disabled while one is in flight.
type chatModel struct {
	ctx  context.Context
	app  *App
	conv *domain.Conversation

	input   textinput.Model
	view    viewport.Model
	spinner spinner.Model

	loading bool
	pending string // user text shown until the turn is saved
	notice  string
	width   int
}

func newChatModel(ctx context.Context, app *App, conv *domain.Conversation) *chatModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe a task, or type /toggle N"
	ti.CharLimit = 2000
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: formatter.SpinnerFrames(), FPS: time.Second / 12}
	sp.Style = formatter.StylePurple

	m := &chatModel{
		ctx:     ctx,
		app:     app,
		conv:    conv,
		input:   ti,
		view:    viewport.New(80, 20),
		spinner: sp,
		width:   80,
	}
	m.refresh()
	return m
}

func (m *chatModel) Init() tea.Cmd {
	return nil
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-chatHeaderHeight-chatFooterHeight, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, chatKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, chatKeys.PageUp), key.Matches(msg, chatKeys.PageDown):
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		}
		if m.loading {
			return m, nil
		}
		if key.Matches(msg, chatKeys.Send) {
			text := m.input.Value()
			m.input.Reset()
			return m, m.submit(text)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sendDoneMsg:
		m.finish()
		if msg.err != nil {
			m.notice = errorNotice(msg.err)
		} else {
			m.conv = msg.res.Conversation
		}
		m.refresh()
		return m, nil

	case toggleDoneMsg:
		m.finish()
		if msg.err != nil {
			m.notice = errorNotice(msg.err)
		} else {
			m.conv = msg.out.Conversation
			if msg.out.Result.Completed {
				m.notice = formatter.StyleGreen.Render("Checklist complete!")
			}
		}
		m.refresh()
		return m, nil

	case switchConvMsg:
		m.finish()
		if msg.err != nil {
			m.notice = errorNotice(msg.err)
		} else {
			m.conv = msg.conv
		}
		m.refresh()
		return m, nil
	}
	return m, nil
}

// submit handles slash commands locally and sends everything else.
func (m *chatModel) submit(raw string) tea.Cmd {
	text := strings.TrimSpace(raw)
	m.notice = ""
	if text == "" {
		return nil
	}

	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/exit":
		return tea.Quit
	case "/new":
		return m.start(func() tea.Msg {
			conv, err := m.app.Conversations.Create(m.ctx, "")
			return switchConvMsg{conv: conv, err: err}
		})
	case "/toggle":
		return m.toggle(fields[1:])
	}

	m.pending = text
	id := m.conv.ID
	return m.start(func() tea.Msg {
		res, err := m.app.Conversations.Send(m.ctx, id, text)
		return sendDoneMsg{res: res, err: err}
	})
}

func (m *chatModel) toggle(args []string) tea.Cmd {
	if len(args) != 1 {
		m.notice = formatter.StyleYellow.Render("Usage: /toggle N")
		return nil
	}
	list := m.conv.LatestChecklist()
	if list == nil {
		m.notice = formatter.StyleYellow.Render("There is no checklist yet.")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(list.Steps) {
		m.notice = formatter.StyleYellow.Render(fmt.Sprintf("No step %s on the current checklist.", args[0]))
		return nil
	}

	convID, msgID, stepID := m.conv.ID, list.ID, list.Steps[n-1].ID
	return m.start(func() tea.Msg {
		out, err := m.app.Conversations.ToggleStep(m.ctx, convID, msgID, stepID)
		return toggleDoneMsg{out: out, err: err}
	})
}

func (m *chatModel) start(call tea.Cmd) tea.Cmd {
	m.loading = true
	m.input.Blur()
	m.refresh()
	return tea.Batch(call, m.spinner.Tick)
}

func (m *chatModel) finish() {
	m.loading = false
	m.pending = ""
	m.input.Focus()
}

func errorNotice(err error) string {
	if errors.Is(err, service.ErrConversationBusy) {
		return formatter.StyleYellow.Render("Still working on the previous message.")
	}
	return formatter.StyleRed.Render("Error: " + err.Error())
}

func (m *chatModel) refresh() {
	var parts []string
	for _, msg := range m.conv.Messages {
		parts = append(parts, formatter.FormatMessage(msg))
	}
	if m.pending != "" {
		parts = append(parts, formatter.FormatMessage(&domain.Message{Role: domain.RoleUser, Text: m.pending}))
	}
	if len(parts) == 0 {
		m.view.SetContent(formatter.RenderBox("tasktamer", "Say hello, or describe the task you want to break down.\n"+
			formatter.Dim("Type 1 once the task is captured to get a checklist.")))
		return
	}

	wrap := lipgloss.NewStyle().Width(max(m.width-1, 10))
	m.view.SetContent(wrap.Render(strings.Join(parts, "\n\n")))
	m.view.GotoBottom()
}

func (m *chatModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(m.conv.Title))
	b.WriteString("  ")
	b.WriteString(formatter.PhaseBadge(m.conv.CurrentPhase().Kind()))
	b.WriteString("\n\n")
	b.WriteString(m.view.View())
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " " + formatter.Dim("Thinking..."))
	case m.notice != "":
		b.WriteString(m.notice)
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(formatter.Dim("enter send · /toggle N · /new · /quit"))
	return b.String()
}
