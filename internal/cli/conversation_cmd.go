package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tasktamer/internal/cli/formatter"
	"github.com/alexanderramin/tasktamer/internal/domain"
)

func newNewCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := app.Conversations.Create(cmd.Context(), title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", formatter.Bold(conv.Title), formatter.Dim(conv.ID))
			return nil
		},
	}
	addTitleFlag(cmd.Flags(), &title)
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List conversations, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			convs, err := app.Conversations.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatConversationList(convs))
			return nil
		},
	}
}

// conversationJSON adds the dialogue phase to the exported conversation.
type conversationJSON struct {
	*domain.Conversation
	Phase domain.PhaseKind `json:"phase"`
}

func newShowCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a conversation transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveConversationID(ctx, app, args[0])
			if err != nil {
				return err
			}
			conv, err := app.Conversations.Get(ctx, id)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(conversationJSON{Conversation: conv, Phase: conv.CurrentPhase().Kind()})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTranscript(conv))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the conversation as JSON")
	return cmd
}

func newSendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "send <id> <text...>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveConversationID(ctx, app, args[0])
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Thinking...")
			}
			res, err := app.Conversations.Send(ctx, id, strings.Join(args[1:], " "))
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range res.Turn.Messages {
				if m.Role == domain.RoleAssistant {
					fmt.Fprintln(out, formatter.FormatMessage(m))
				}
			}
			return nil
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <message-id> <step-id>",
		Short: "Check or uncheck one checklist step",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveConversationID(ctx, app, args[0])
			if err != nil {
				return err
			}
			out, err := app.Conversations.ToggleStep(ctx, id, args[1], args[2])
			if err != nil {
				return err
			}
			if !out.Result.Changed {
				return fmt.Errorf("no step %q on message %q", args[2], args[1])
			}

			msg := out.Conversation.FindMessage(args[1])
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatChecklist(msg))
			if out.Result.Completed {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Checklist complete!"))
			}
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a conversation and its checklists",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveConversationID(ctx, app, args[0])
			if err != nil {
				return err
			}
			conv, err := app.Conversations.Get(ctx, id)
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %q without --yes", conv.Title)
				}
				ok, err := app.confirm(fmt.Sprintf("Delete %q and all its messages?", conv.Title))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			if err := app.Conversations.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Bold(conv.Title))
			return nil
		},
	}
	addYesFlag(cmd.Flags(), &yes)
	return cmd
}
