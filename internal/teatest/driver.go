// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and the Cmds it returns are run in order, so a
// chat turn (keypresses, service call, reply) has landed before the next
// assertion. A Cmd that does not return within the driver's timeout is
// dropped along with anything it would have produced.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many Cmd generations one Send may trigger.
const MaxDrainDepth = 100

// DefaultCmdTimeout suits Cmds that only build a message. Raise it with
// WithCmdTimeout when Cmds do real work such as a database round trip.
const DefaultCmdTimeout = 10 * time.Millisecond

// Driver feeds messages to a tea.Model and runs the resulting Cmds.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once a tea.QuitMsg is produced. The bubbletea runtime
	// normally swallows that message, so the driver records it instead.
	Quitting bool

	cmdTimeout time.Duration
}

// Option configures a Driver.
type Option func(*Driver)

// WithSize delivers an initial WindowSizeMsg.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.Model, _ = d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// WithCmdTimeout changes how long a single Cmd may run before it is dropped.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.cmdTimeout = timeout
	}
}

// New creates a Driver. Options run in order, so WithSize sees the model as
// constructed. Call DrainInit afterwards to run the model's Init Cmd.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, cmdTimeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DrainInit runs the model's Init Cmd.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.run(d.Model.Init())
}

// Send delivers msg and runs every Cmd it leads to. Nothing is delivered
// after the model has quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd)
}

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressEnter sends the Enter key.
func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEnter})
}

// PressEsc sends the Escape key.
func (d *Driver) PressEsc() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyEsc})
}

// PressCtrlC sends Ctrl+C.
func (d *Driver) PressCtrlC() {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// Submit types s and presses Enter.
func (d *Driver) Submit(s string) {
	d.T.Helper()
	d.Type(s)
	d.PressEnter()
}

// View returns the model's current rendering.
func (d *Driver) View() string {
	return d.Model.View()
}

// run executes cmd depth-first: a batch's members run in order, and each
// message is delivered before the next sibling Cmd starts.
func (d *Driver) run(cmd tea.Cmd) {
	d.T.Helper()
	d.runAt(cmd, 0)
}

func (d *Driver) runAt(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	switch msg := d.await(cmd).(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			d.runAt(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		d.Model, _ = d.Model.Update(msg)
	default:
		if isCursorBlink(msg) {
			return
		}
		var next tea.Cmd
		d.Model, next = d.Model.Update(msg)
		d.runAt(next, depth+1)
	}
}

// await returns cmd's message, or nil if cmd outlives the timeout.
func (d *Driver) await(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	timer := time.NewTimer(d.cmdTimeout)
	defer timer.Stop()
	select {
	case msg := <-done:
		return msg
	case <-timer.C:
		return nil
	}
}

// isCursorBlink matches the unexported blink messages of bubbles/cursor,
// which would otherwise chain into blocking timer Cmds.
func isCursorBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
