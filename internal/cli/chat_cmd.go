package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasktamer/internal/domain"
)

func newChatCmd(app *App) *cobra.Command {
	var title string
	var fresh bool
	cmd := &cobra.Command{
		Use:   "chat [id]",
		Short: "Open the interactive chat view",
		Long: `Open the interactive chat view on a conversation. Without an ID the most
recently updated conversation is used; --new starts a fresh one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var conv *domain.Conversation
			var err error

			switch {
			case fresh:
				conv, err = app.Conversations.Create(ctx, title)
			case len(args) == 1:
				var id string
				if id, err = resolveConversationID(ctx, app, args[0]); err == nil {
					conv, err = app.Conversations.Get(ctx, id)
				}
			default:
				conv, err = app.Conversations.Latest(ctx)
			}
			if err != nil {
				return err
			}
			return runChat(ctx, app, conv)
		},
	}
	cmd.Flags().BoolVarP(&fresh, "new", "n", false, "start a new conversation")
	addTitleFlag(cmd.Flags(), &title)
	return cmd
}

func runChat(ctx context.Context, app *App, conv *domain.Conversation) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(newChatModel(ctx, app, conv), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
