package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasktamer/internal/service"
)

// App holds the services and terminal hooks used by CLI commands.
type App struct {
	Conversations service.ConversationService

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(prompt string) (bool, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(prompt string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(prompt)
	}
	return confirmForm(prompt)
}

// NewRootCmd creates the top-level "tasktamer" command and registers all
// subcommands against the provided App. Without arguments on a terminal it
// opens the chat view on the most recent conversation.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tasktamer",
		Short:         "Turn a task into a checklist you can tick off",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			conv, err := app.Conversations.Latest(cmd.Context())
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), app, conv)
		},
	}

	root.AddCommand(
		newChatCmd(app),
		newNewCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newSendCmd(app),
		newToggleCmd(app),
		newDeleteCmd(app),
	)

	return root
}
