package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveConversationID accepts a full conversation ID or a unique prefix,
// such as the eight characters shown by "list".
func resolveConversationID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("conversation ID is required")
	}

	convs, err := app.Conversations.List(ctx)
	if err != nil {
		return "", err
	}

	for _, c := range convs {
		if c.ID == input {
			return c.ID, nil
		}
	}

	var matches []string
	for _, c := range convs {
		if strings.HasPrefix(c.ID, input) {
			matches = append(matches, c.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("conversation not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("conversation ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
