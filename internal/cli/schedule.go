package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sdejongh/downsort/pkg/config"
	"github.com/sdejongh/downsort/pkg/duplicate"
	"github.com/sdejongh/downsort/pkg/logging"
	"github.com/sdejongh/downsort/pkg/models"
	"github.com/sdejongh/downsort/pkg/organize"
)

// ScheduleFlags holds schedule command flags
type ScheduleFlags struct {
	Cron        string
	OnDuplicate string
	Once        bool
}

// NewScheduleCommand creates the schedule command
func NewScheduleCommand() *cobra.Command {
	var flags ScheduleFlags

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Organize the downloads folder on a cron schedule",
		Long: `Run organize unattended whenever the cron expression fires, until
interrupted. Duplicates are handled with the schedule policy since nobody
is there to answer. Use --once to run a single pass from an external
scheduler such as cron or systemd timers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, &flags)
		},
	}

	cmd.Flags().StringVar(&flags.Cron, "cron", "", "5-field cron expression (default from config)")
	cmd.Flags().StringVar(&flags.OnDuplicate, "on-duplicate", "", "duplicate handling: rename, overwrite, skip")
	cmd.Flags().BoolVar(&flags.Once, "once", false, "run a single pass now and exit")

	return cmd
}

func runSchedule(cmd *cobra.Command, flags *ScheduleFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if flags.Cron != "" {
		s.cfg.Schedule.Cron = flags.Cron
	}
	if flags.OnDuplicate != "" {
		s.cfg.Schedule.OnDuplicate = models.DuplicatePolicy(flags.OnDuplicate)
	}
	policy := s.cfg.Schedule.OnDuplicate
	if policy == models.PolicyAsk || !policy.Valid() {
		return fmt.Errorf("unsupported schedule duplicate policy: %s (use: rename, overwrite, skip)", policy)
	}

	if flags.Once {
		report, err := s.organizeHeadless(ctx, policy)
		if err != nil {
			return err
		}
		return exitFor(report.Status)
	}

	sched, err := config.ParseSchedule(s.cfg.Schedule.Cron)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Scheduler started", logging.Fields{
		"cron": s.cfg.Schedule.Cron,
		"root": s.root,
	})

	for {
		now := time.Now()
		next := sched.Next(now)
		if next.IsZero() {
			return fmt.Errorf("cron expression %q has no future runs", s.cfg.Schedule.Cron)
		}
		wait := next.Sub(now)
		if !s.cfg.Output.Quiet {
			fmt.Fprintf(s.stderr, "Next run at %s (in %s)\n", next.Format("Mon Jan 2 15:04"), wait.Round(time.Second))
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info(ctx, "Scheduler stopped", nil)
			return nil
		case <-timer.C:
		}

		report, err := s.organizeHeadless(ctx, policy)
		switch {
		case errors.Is(err, organize.ErrRunInProgress):
			s.logger.Warn(ctx, "Skipping scheduled run", logging.Fields{"reason": err.Error()})
		case err != nil:
			s.logger.Error(ctx, "Scheduled run failed", err, nil)
			fmt.Fprintf(s.stderr, "Scheduled run failed: %v\n", err)
		default:
			s.logger.Info(ctx, "Scheduled run finished", logging.Fields{
				"operation_id": report.OperationID,
				"status":       string(report.Status),
			})
		}
	}
}

// organizeHeadless runs one organize pass without asking anything
func (s *session) organizeHeadless(ctx context.Context, policy models.DuplicatePolicy) (*models.OrganizeReport, error) {
	op, err := s.operation(policy)
	if err != nil {
		return nil, err
	}
	provider, err := duplicate.NewPolicyProvider(policy)
	if err != nil {
		return nil, err
	}

	backend, err := s.backend()
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	lock, err := s.acquireRunLock()
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	engine, err := s.newEngine(backend, op, provider, s.formatter(policy))
	if err != nil {
		return nil, err
	}
	return engine.Run(ctx)
}
