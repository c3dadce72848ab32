package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxai/internal/batch"
	"github.com/teemow/inboxai/internal/display"
	"github.com/teemow/inboxai/internal/inbox"
)

func newSummarizeCmd() *cobra.Command {
	var (
		last    bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "summarize [message-id...]",
		Short: "Summarize unread emails, or the given messages",
		Long: `Summarize every unread email (up to INBOXAI_GMAIL_UNREAD_LIMIT), only the
most recent one with --last, or the messages whose IDs are given as arguments.
Attachments are extracted and included in each summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if last && len(args) > 0 {
				return fmt.Errorf("--last cannot be combined with message IDs")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				summaries, err := collectSummaries(ctx, a.inbox, args, last)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), jsonOut, summaries, display.Summaries)
			})
		},
	}

	cmd.Flags().BoolVar(&last, "last", false, "Only summarize the most recent unread email")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of formatted text")

	return cmd
}

func collectSummaries(ctx context.Context, svc *inbox.Service, ids []string, last bool) ([]inbox.Summary, error) {
	switch {
	case last:
		sum, err := svc.Last(ctx)
		if err != nil || sum == nil {
			return nil, err
		}
		return []inbox.Summary{*sum}, nil
	case len(ids) > 0:
		results := batch.Process(ctx, ids, svc.SummarizeMessage)
		summaries := make([]inbox.Summary, 0, len(results))
		for _, r := range results {
			if !r.OK() {
				summaries = append(summaries, inbox.Summary{ID: r.ID, Error: r.Error})
				continue
			}
			summaries = append(summaries, r.Value)
		}
		return summaries, nil
	default:
		return svc.Summaries(ctx)
	}
}

func newCategoriesCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Categorize unread emails",
		Long:  `Assign each unread email one of Primary, Promotions, Social, Updates or Spam.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				items, err := a.inbox.Categories(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), jsonOut, items, display.Categories)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of formatted text")
	return cmd
}

// withApp builds the CLI application, runs fn and releases it.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, appOptions{surface: surfaceCLI, debug: debugMode})
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close(context.Background())
	}()
	return fn(ctx, a)
}

// render writes v as indented JSON, or through the terminal formatter.
func render[T any](w io.Writer, asJSON bool, v T, pretty func(io.Writer, T)) error {
	if !asJSON {
		pretty(w, v)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
