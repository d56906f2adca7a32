package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sdejongh/downsort/internal/platform"
	"github.com/sdejongh/downsort/pkg/classify"
	"github.com/sdejongh/downsort/pkg/compare"
	"github.com/sdejongh/downsort/pkg/config"
	"github.com/sdejongh/downsort/pkg/duplicate"
	"github.com/sdejongh/downsort/pkg/logging"
	"github.com/sdejongh/downsort/pkg/models"
	"github.com/sdejongh/downsort/pkg/mover"
	"github.com/sdejongh/downsort/pkg/organize"
	"github.com/sdejongh/downsort/pkg/output"
	"github.com/sdejongh/downsort/pkg/storage"
)

// ExitError carries a non-zero process exit code out of a command
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// isTerminal reports whether r or w is attached to a terminal. Tests
// replace it to drive the interactive paths.
var isTerminal = func(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// session is the state shared by every command of one invocation
type session struct {
	cfg    *config.Config
	root   string
	logger logging.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// newSession loads the configuration, applies global flags and opens the
// logger. The caller must call close.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(globalFlags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyGlobalFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	root, err := resolveRoot(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &session{
		cfg:    cfg,
		root:   root,
		logger: logger,
		stdin:  cmd.InOrStdin(),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}, nil
}

func (s *session) close() {
	s.logger.Close()
}

// applyGlobalFlags overrides configuration with command-line flags
func applyGlobalFlags(cfg *config.Config) {
	if globalFlags.Root != "" {
		cfg.Organize.Root = globalFlags.Root
	}
	if globalFlags.Format != "" {
		cfg.Output.Format = globalFlags.Format
	}
	if globalFlags.Quiet {
		cfg.Output.Quiet = true
	}
	if globalFlags.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}
}

func resolveRoot(cfg *config.Config) (string, error) {
	root := cfg.Organize.Root
	if root == "" {
		dir, err := platform.DownloadsDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate downloads folder: %w", err)
		}
		root = dir
	}
	if err := platform.ValidatePath(root); err != nil {
		return "", err
	}
	return platform.NormalizePath(root), nil
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config) (logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NewNullLogger(), nil
	}

	path := cfg.Logging.File
	if path == "" {
		var err error
		if path, err = platform.DefaultLogPath(); err != nil {
			return nil, err
		}
	}

	format := logging.FormatText
	if cfg.Logging.Format == "json" {
		format = logging.FormatJSON
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       platform.NormalizePath(path),
		Format:     format,
		Level:      logging.ParseLevel(cfg.Logging.Level),
		MaxSize:    int64(cfg.Logging.MaxSizeMB) * 1024 * 1024,
		MaxBackups: cfg.Logging.MaxBackups,
	})
}

func (s *session) format() string {
	return s.cfg.Output.Format
}

// operation creates the organize operation for one run
func (s *session) operation(policy models.DuplicatePolicy) (*models.OrganizeOperation, error) {
	op := &models.OrganizeOperation{
		ID:                uuid.New().String(),
		RootPath:          s.root,
		DuplicatePolicy:   policy,
		ExcludePatterns:   s.cfg.Organize.Exclude,
		CompareDuplicates: s.cfg.Organize.CompareDuplicates,
		MaxAttempts:       s.cfg.Locks.MaxAttempts,
		RetryDelay:        s.cfg.Locks.RetryDelay,
		KillProcesses:     s.cfg.Locks.KillProcesses,
		CreatedAt:         time.Now(),
	}
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("invalid organize operation: %w", err)
	}
	return op, nil
}

// formatter picks the run formatter: json, a progress bar on terminals,
// or plain status lines. Quiet mode prints nothing. The bar is never used
// with the ask policy since it would redraw over the duplicate menu.
func (s *session) formatter(policy models.DuplicatePolicy) output.Formatter {
	switch {
	case s.format() == "json":
		return output.NewJSONFormatter(s.stdout)
	case s.cfg.Output.Quiet:
		return nil
	case s.cfg.Output.Progress && policy != models.PolicyAsk && isTerminal(s.stdout):
		return output.NewProgressFormatter(s.stdout)
	default:
		return output.NewHumanFormatter(s.stdout, globalFlags.Verbose)
	}
}

func (s *session) backend() (*storage.Local, error) {
	backend, err := storage.NewLocal(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.root, err)
	}
	return backend, nil
}

// newEngine wires the organize engine for op. The caller owns backend.
func (s *session) newEngine(
	backend storage.Backend,
	op *models.OrganizeOperation,
	provider duplicate.DecisionProvider,
	formatter output.Formatter,
) (*organize.Engine, error) {
	logger := s.logger.WithFields(logging.Fields{"operation_id": op.ID})

	var breaker mover.LockBreaker = mover.NoopBreaker{}
	if op.KillProcesses {
		breaker = mover.NewProcessBreaker(logger)
	}
	executor := mover.NewExecutor(mover.ExecutorConfig{
		MaxAttempts: op.MaxAttempts,
		RetryDelay:  op.RetryDelay,
	}, breaker, logger)

	var comparator compare.Comparator
	if op.CompareDuplicates {
		comparator = compare.NewHashComparator(0)
	}
	resolver := duplicate.NewResolver(backend, provider, comparator, logger)

	return organize.NewEngine(backend, classify.NewDefault(), executor, resolver, formatter, logger, op)
}

// acquireRunLock takes the per-root lock guarding organize runs
func (s *session) acquireRunLock() (*organize.RunLock, error) {
	path, err := platform.RunLockPath(s.root)
	if err != nil {
		return nil, err
	}
	lock := organize.NewRunLock(path)
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, organize.ErrRunInProgress) {
			return nil, fmt.Errorf("%s: %w", s.root, err)
		}
		return nil, err
	}
	return lock, nil
}

// exitFor turns a run status into the command result
func exitFor(status models.RunStatus) error {
	if code := status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
