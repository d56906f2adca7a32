package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sdejongh/downsort/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Organize OrganizeConfig `yaml:"organize"`
	Locks    LocksConfig    `yaml:"locks"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// OrganizeConfig holds organize-related settings
type OrganizeConfig struct {
	Root              string                 `yaml:"root"` // empty = platform downloads folder
	OnDuplicate       models.DuplicatePolicy `yaml:"on_duplicate"`
	Exclude           []string               `yaml:"exclude"`
	CompareDuplicates bool                   `yaml:"compare_duplicates"`
}

// LocksConfig holds the locked-file retry settings
type LocksConfig struct {
	MaxAttempts   int           `yaml:"max_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	KillProcesses bool          `yaml:"kill_processes"`
}

// CleanupConfig holds cleanup settings
type CleanupConfig struct {
	MaxAgeDays    int  `yaml:"max_age_days"`
	IncludeHidden bool `yaml:"include_hidden"`
}

// ScheduleConfig holds settings for scheduled runs
type ScheduleConfig struct {
	Cron        string                 `yaml:"cron"`
	OnDuplicate models.DuplicatePolicy `yaml:"on_duplicate"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar on terminals
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`   // empty = user cache directory
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Organize: OrganizeConfig{
			OnDuplicate:       models.PolicyAsk,
			CompareDuplicates: true,
			Exclude: []string{
				"*.crdownload",
				"*.part",
				"*.partial",
				"*.download",
				".~lock.*",
			},
		},
		Locks: LocksConfig{
			MaxAttempts:   3,
			RetryDelay:    2 * time.Second,
			KillProcesses: true,
		},
		Cleanup: CleanupConfig{
			MaxAgeDays: 30,
		},
		Schedule: ScheduleConfig{
			Cron:        "0 * * * *",
			OnDuplicate: models.PolicyRename,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Format:     "json",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Organize.OnDuplicate.Valid() {
		return &models.ValidationError{
			Field:   "organize.on_duplicate",
			Message: "must be 'ask', 'rename', 'overwrite' or 'skip'",
		}
	}

	if c.Locks.MaxAttempts < 1 {
		return &models.ValidationError{
			Field:   "locks.max_attempts",
			Message: "must be at least 1",
		}
	}

	if c.Locks.RetryDelay < 0 {
		return &models.ValidationError{
			Field:   "locks.retry_delay",
			Message: "cannot be negative",
		}
	}

	if c.Cleanup.MaxAgeDays < 0 {
		return &models.ValidationError{
			Field:   "cleanup.max_age_days",
			Message: "cannot be negative",
		}
	}

	if _, err := ParseSchedule(c.Schedule.Cron); err != nil {
		return &models.ValidationError{
			Field:   "schedule.cron",
			Message: err.Error(),
		}
	}

	// Scheduled runs have no operator to answer prompts
	if !c.Schedule.OnDuplicate.Valid() || c.Schedule.OnDuplicate == models.PolicyAsk {
		return &models.ValidationError{
			Field:   "schedule.on_duplicate",
			Message: "must be 'rename', 'overwrite' or 'skip'",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size_mb",
			Message: "rotation settings cannot be negative",
		}
	}

	return nil
}

// ParseSchedule parses a standard five-field cron expression
// ("minute hour day-of-month month day-of-week") or a descriptor such as
// "@hourly". Expressions that never fire, such as February 30th, are
// rejected.
func ParseSchedule(expr string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	if sched.Next(time.Now()).IsZero() {
		return nil, fmt.Errorf("cron expression %q never fires", expr)
	}
	return sched, nil
}
