package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxai/internal/display"
)

func newAskCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ask <instruction>",
		Short: "Ask a free-text question about the inbox",
		Long: `Interpret a free-text instruction the same way POST /command does, e.g.

  inboxai ask "how many emails from github"
  inboxai ask "summarize my unread emails"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				out := a.dispatcher.Respond(ctx, text)
				return render(cmd.OutOrStdout(), jsonOut, out, display.Reply)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the reply and its data as JSON")
	return cmd
}
