package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdejongh/downsort/pkg/config"
	"github.com/sdejongh/downsort/pkg/duplicate"
	"github.com/sdejongh/downsort/pkg/models"
	"github.com/sdejongh/downsort/pkg/output"
)

// OrganizeFlags holds organize command flags
type OrganizeFlags struct {
	OnDuplicate  string
	DryRun       bool
	Yes          bool
	NoKill       bool
	Progress     bool
	Report       string
	ReportFormat string
}

// NewOrganizeCommand creates the organize command
func NewOrganizeCommand() *cobra.Command {
	var flags OrganizeFlags

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Move downloads into category folders",
		Long: `Classify every file in the downloads folder by extension and move it into
its category folder (images, documents/<type>, videos, audio, comprimidos,
ejecutables, otros). Files already in place are left alone, so the command
can be run repeatedly.

Files matching organize.exclude are never moved. By default these are
in-progress downloads and office lock files:
  ` + strings.Join(config.Default().Organize.Exclude, " ") + `
Set organize.exclude to an empty list to move every file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, &flags)
		},
	}

	cmd.Flags().StringVar(&flags.OnDuplicate, "on-duplicate", "", "duplicate handling: ask, rename, overwrite, skip")
	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false, "show what would move without moving anything")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&flags.NoKill, "no-kill", false, "never terminate processes holding a locked file")
	cmd.Flags().BoolVar(&flags.Progress, "progress", false, "show a progress bar")
	cmd.Flags().StringVar(&flags.Report, "report", "", "write the run report to file")
	cmd.Flags().StringVar(&flags.ReportFormat, "report-format", "human", "report format: human, json")

	return cmd
}

// NewPlanCommand creates the plan command, a shortcut for organize --dry-run
func NewPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show where each file would be moved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganize(cmd, &OrganizeFlags{DryRun: true, ReportFormat: "human"})
		},
	}
}

func runOrganize(cmd *cobra.Command, flags *OrganizeFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if flags.OnDuplicate != "" {
		s.cfg.Organize.OnDuplicate = models.DuplicatePolicy(flags.OnDuplicate)
	}
	if flags.NoKill {
		s.cfg.Locks.KillProcesses = false
	}
	if flags.Progress {
		s.cfg.Output.Progress = true
	}
	if flags.Report != "" && flags.ReportFormat != "human" && flags.ReportFormat != "json" {
		return fmt.Errorf("unsupported report format: %s (use: human, json)", flags.ReportFormat)
	}

	policy := s.cfg.Organize.OnDuplicate
	op, err := s.operation(policy)
	if err != nil {
		return err
	}

	backend, err := s.backend()
	if err != nil {
		return err
	}
	defer backend.Close()

	interactive := isTerminal(s.stdin)
	prompt := duplicate.NewPromptProvider(s.stdin, s.stderr)

	var provider duplicate.DecisionProvider
	if policy == models.PolicyAsk {
		if !interactive && !flags.DryRun {
			return fmt.Errorf("on_duplicate=ask needs an interactive terminal; use --on-duplicate rename, overwrite or skip")
		}
		provider = prompt
	} else {
		if provider, err = duplicate.NewPolicyProvider(policy); err != nil {
			return err
		}
	}

	if flags.DryRun {
		engine, err := s.newEngine(backend, op, provider, nil)
		if err != nil {
			return err
		}
		pending, err := engine.Plan(ctx)
		if err != nil {
			return err
		}
		return output.RenderPlan(s.stdout, pending, s.format())
	}

	lock, err := s.acquireRunLock()
	if err != nil {
		return err
	}
	defer lock.Release()

	engine, err := s.newEngine(backend, op, provider, s.formatter(policy))
	if err != nil {
		return err
	}

	if !flags.Yes {
		pending, err := engine.Plan(ctx)
		if err != nil {
			return err
		}
		if len(pending) > 0 {
			if !interactive {
				return fmt.Errorf("refusing to move %d files without confirmation; pass --yes", len(pending))
			}
			if err := output.RenderPlan(s.stderr, pending, "human"); err != nil {
				return err
			}
			ok, err := prompt.Confirm(fmt.Sprintf("Organize %d files?", len(pending)))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !ok {
				fmt.Fprintln(s.stderr, "Cancelled")
				return nil
			}
		}
	}

	report, err := engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("organize failed: %w", err)
	}

	if flags.Report != "" {
		if err := output.WriteReportFile(report, flags.Report, flags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	return exitFor(report.Status)
}
