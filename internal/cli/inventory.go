package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/downsort/pkg/classify"
	"github.com/sdejongh/downsort/pkg/duplicate"
	"github.com/sdejongh/downsort/pkg/inventory"
	"github.com/sdejongh/downsort/pkg/output"
)

// inventoryCommand runs fn against an inventory of the session root
func inventoryCommand(cmd *cobra.Command, fn func(ctx context.Context, s *session, inv *inventory.Inventory) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	backend, err := s.backend()
	if err != nil {
		return err
	}
	defer backend.Close()

	return fn(ctx, s, inventory.New(backend, classify.NewDefault(), s.logger))
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	var hidden bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files in the downloads folder",
		Long:  `List the files directly in the downloads folder, newest first, with their size, date and type.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inventoryCommand(cmd, func(ctx context.Context, s *session, inv *inventory.Inventory) error {
				entries, err := inv.List(ctx, hidden)
				if err != nil {
					return err
				}
				return output.RenderEntries(s.stdout, entries, s.format())
			})
		},
	}

	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden files")

	return cmd
}

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	var fuzzy int

	cmd := &cobra.Command{
		Use:   "search TERM...",
		Short: "Find files by name",
		Long: `Find files whose name contains TERM, ignoring case. With --fuzzy N, names
within N edits of TERM also match.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fuzzy < 0 {
				return fmt.Errorf("--fuzzy cannot be negative")
			}
			term := strings.Join(args, " ")
			return inventoryCommand(cmd, func(ctx context.Context, s *session, inv *inventory.Inventory) error {
				matches, err := inv.Search(ctx, term, fuzzy)
				if err != nil {
					return err
				}
				return output.RenderMatches(s.stdout, term, matches, s.format())
			})
		},
	}

	cmd.Flags().IntVar(&fuzzy, "fuzzy", 0, "also match names within this edit distance")

	return cmd
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	var hidden bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show file counts per type and total size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inventoryCommand(cmd, func(ctx context.Context, s *session, inv *inventory.Inventory) error {
				entries, err := inv.List(ctx, hidden)
				if err != nil {
					return err
				}
				stats := inventory.Summarize(entries)
				if s.format() != "json" {
					fmt.Fprintf(s.stdout, "Files: %d\n", stats.Files)
				}
				return output.RenderStats(s.stdout, stats, s.format())
			})
		},
	}

	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden files")

	return cmd
}

// CleanupFlags holds cleanup command flags
type CleanupFlags struct {
	Days   int
	DryRun bool
	Yes    bool
	Hidden bool
}

// NewCleanupCommand creates the cleanup command
func NewCleanupCommand() *cobra.Command {
	var flags CleanupFlags

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete old files from the downloads folder",
		Long: `Delete files directly in the downloads folder that were last modified more
than --days days ago. Category folders are never touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inventoryCommand(cmd, func(ctx context.Context, s *session, inv *inventory.Inventory) error {
				return runCleanup(ctx, cmd, s, inv, &flags)
			})
		},
	}

	cmd.Flags().IntVar(&flags.Days, "days", 0, "age in days (default from config, 30)")
	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false, "list files that would be removed")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&flags.Hidden, "hidden", false, "include hidden files")

	return cmd
}

func runCleanup(ctx context.Context, cmd *cobra.Command, s *session, inv *inventory.Inventory, flags *CleanupFlags) error {
	days := s.cfg.Cleanup.MaxAgeDays
	if cmd.Flags().Changed("days") {
		days = flags.Days
	}
	if days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	hidden := flags.Hidden || s.cfg.Cleanup.IncludeHidden
	maxAge := time.Duration(days) * 24 * time.Hour

	if flags.DryRun || !flags.Yes {
		preview, err := inv.Cleanup(ctx, maxAge, hidden, true)
		if err != nil {
			return err
		}
		if flags.DryRun || len(preview.Removed) == 0 {
			return output.RenderCleanup(s.stdout, preview, s.format())
		}

		if !isTerminal(s.stdin) {
			return fmt.Errorf("refusing to delete %d files without confirmation; pass --yes", len(preview.Removed))
		}
		if err := output.RenderCleanup(s.stderr, preview, "human"); err != nil {
			return err
		}
		prompt := duplicate.NewPromptProvider(s.stdin, s.stderr)
		ok, err := prompt.Confirm(fmt.Sprintf("Delete %d files permanently?", len(preview.Removed)))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			fmt.Fprintln(s.stderr, "Cancelled")
			return nil
		}
	}

	result, err := inv.Cleanup(ctx, maxAge, hidden, false)
	if err != nil {
		return err
	}
	if err := output.RenderCleanup(s.stdout, result, s.format()); err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}
