package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxai/internal/attachments"
	"github.com/teemow/inboxai/internal/config"
	"github.com/teemow/inboxai/internal/display"
	"github.com/teemow/inboxai/internal/inbox"
)

func newCleanupCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove leftover attachment scratch directories",
		Long: `Attachments are staged in a per-message scratch directory that is removed
as soon as the message is summarized. A process that is killed mid-request
leaves its directory behind; this command removes such directories once they
are older than --older-than.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			root := cfg.Attachments.ScratchDir
			if root == "" {
				root = inbox.DefaultScratchRoot()
			}

			removed, err := attachments.PruneScratch(root, time.Now().Add(-olderThan))
			for _, path := range removed {
				display.SuccessMsg(cmd.OutOrStdout(), "removed %s", path)
			}
			if err != nil {
				return fmt.Errorf("failed to prune %s: %w", root, err)
			}

			display.SuccessMsg(cmd.OutOrStdout(), "Removed %d scratch director(ies) from %s", len(removed), root)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", time.Hour, "Only remove directories last modified before this long ago")
	return cmd
}
