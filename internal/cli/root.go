package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the downsort command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "downsort",
		Short: "Keep the downloads folder organized",
		Long: `downsort sorts the files in your downloads folder into category folders
by extension, resolving name clashes and retrying files locked by other
programs. It can also list, search, summarize and clean up old downloads.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewOrganizeCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewCleanupCommand())
	rootCmd.AddCommand(NewScheduleCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
