package dialogue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

func TestDefaultPhrases_Greeting(t *testing.T) {
	p := DefaultPhrases()
	for _, s := range []string{"hi", "Hello there", "HEY", "yo!", "hiya friend", "Greetings"} {
		assert.True(t, p.Greeting(s), s)
	}
	for _, s := range []string{"history homework", "oh hi", "yoga plan"} {
		assert.False(t, p.Greeting(s), s)
	}
}

func TestDefaultPhrases_BreakdownOffer(t *testing.T) {
	p := DefaultPhrases()
	assert.True(t, p.BreakdownOffer("Want me to break this down for you?"))
	assert.True(t, p.BreakdownOffer("I can BREAK THIS INTO SMALLER TASKS."))
	assert.False(t, p.BreakdownOffer("Here is some advice."))
}

func TestDefaultPhrases_DifferentTask(t *testing.T) {
	p := DefaultPhrases()
	task := "Clean my garage"

	assert.False(t, p.DifferentTask("clean my garage by friday", task))
	assert.True(t, p.DifferentTask("another task: clean my garage", task))
	assert.True(t, p.DifferentTask("Switch task please", task))
	assert.True(t, p.DifferentTask("add a step for the attic", task))
}

func TestContainsAny(t *testing.T) {
	match := ContainsAny("Foo Bar", "baz")
	assert.True(t, match("xx foo bar yy"))
	assert.True(t, match("BAZ"))
	assert.False(t, match("foo"))
}

func TestPhraseSet_PartialOverride(t *testing.T) {
	phrases := PhraseSet{Greeting: ContainsAny("hola")}
	e := NewEngine(&fakeAssistant{}, nil, phrases)

	turn, err := e.SendUserInput(context.Background(), newConv(), "hola amigo")
	require.NoError(t, err)
	assert.Equal(t, ReplyGreeting, turn.Reply().Text)

	// Unset predicates keep their defaults.
	assert.NotNil(t, e.phrases.BreakdownOffer)
	assert.NotNil(t, e.phrases.DifferentTask)
	assert.Equal(t, domain.PhaseAwaitingTask, turn.Phase)
}
