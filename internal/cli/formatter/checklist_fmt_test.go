package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

func TestRenderInline_Bold(t *testing.T) {
	got := RenderInline("Buy **strong** boxes")
	assert.Contains(t, got, "strong")
	assert.NotContains(t, got, "**")
	assert.Contains(t, got, "Buy ")

	assert.Equal(t, "no markers", RenderInline("no markers"))
	assert.Equal(t, "unclosed **bold", RenderInline("unclosed **bold"))
}

func TestFormatStep(t *testing.T) {
	open := FormatStep(1, domain.Step{ID: "step-1", Text: "Sort tools"})
	assert.Contains(t, open, " 1.")
	assert.Contains(t, open, "[ ]")
	assert.Contains(t, open, "Sort tools")

	done := FormatStep(12, domain.Step{ID: "step-12", Text: "Sweep **floor**", Done: true})
	assert.Contains(t, done, "12.")
	assert.Contains(t, done, "[x]")
	assert.Contains(t, done, "Sweep floor")
	assert.NotContains(t, done, "**")
}

func TestFormatChecklist(t *testing.T) {
	m := &domain.Message{
		Role: domain.RoleAssistant,
		Steps: []domain.Step{
			{ID: "step-1", Text: "Sort tools", Done: true},
			{ID: "step-2", Text: "Sweep floor"},
		},
		Motivation: "Halfway there, nice rhythm.",
	}
	got := FormatChecklist(m)
	assert.Contains(t, got, "Sort tools")
	assert.Contains(t, got, "Sweep floor")
	assert.Contains(t, got, "1/2 completed (50%)")
	assert.Contains(t, got, "Halfway there, nice rhythm.")

	assert.Empty(t, FormatChecklist(&domain.Message{Text: "plain"}))
}

func TestFormatMessage(t *testing.T) {
	user := FormatMessage(&domain.Message{Role: domain.RoleUser, Text: "clean my garage"})
	assert.Contains(t, user, "You")
	assert.Contains(t, user, "clean my garage")

	reply := FormatMessage(&domain.Message{Role: domain.RoleAssistant, Text: "Got it."})
	assert.Contains(t, reply, "Assistant")
	assert.NotContains(t, reply, "completed")
}

func TestFormatTranscript(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	c := domain.NewConversation("0123456789", "Clean my garage", now)
	c.Phase = domain.ChecklistActive{Task: "clean my garage"}
	c.Append(&domain.Message{ID: "m1", Role: domain.RoleUser, Text: "1", CreatedAt: now})
	c.Append(&domain.Message{ID: "m2", Role: domain.RoleAssistant, CreatedAt: now,
		Steps: []domain.Step{{ID: "step-1", Text: "Sort tools"}}})

	got := FormatTranscript(c)
	assert.Contains(t, got, "CLEAN MY GARAGE")
	assert.Contains(t, got, "Checklist")
	assert.Contains(t, got, "01234567")
	assert.Contains(t, got, "Sort tools")
	assert.Contains(t, got, "0/1 completed (0%)")
}

func TestFormatConversationList(t *testing.T) {
	assert.Contains(t, FormatConversationList(nil), "No conversations yet")

	now := time.Now()
	list := []*domain.Conversation{
		domain.NewConversation("aaaaaaaa-1", "Chat 2", now),
		domain.NewConversation("bbbbbbbb-1", "Chat 1", now.Add(-time.Hour)),
	}
	got := FormatConversationList(list)
	assert.Contains(t, got, "TITLE")
	assert.Contains(t, got, "Chat 2")
	assert.Contains(t, got, "aaaaaaaa")
	assert.Less(t, strings.Index(got, "Chat 2"), strings.Index(got, "Chat 1"))
}
