package organize

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sdejongh/downsort/pkg/classify"
	"github.com/sdejongh/downsort/pkg/duplicate"
	"github.com/sdejongh/downsort/pkg/logging"
	"github.com/sdejongh/downsort/pkg/models"
	"github.com/sdejongh/downsort/pkg/mover"
	"github.com/sdejongh/downsort/pkg/output"
	"github.com/sdejongh/downsort/pkg/storage"
)

// Mover moves a single file between absolute paths
type Mover interface {
	Move(ctx context.Context, src, dst string) (*mover.MoveResult, error)
}

// Engine orchestrates an organize run.
//
// Candidates are processed one at a time: each file is classified, its
// target folder created, duplicates resolved and the move completed
// before the next file is considered.
type Engine struct {
	backend    storage.Backend
	classifier *classify.Classifier
	mover      Mover
	resolver   *duplicate.Resolver
	formatter  output.Formatter
	logger     logging.Logger
	operation  *models.OrganizeOperation
	exclude    *ExcludeMatcher
}

// NewEngine creates a new organize engine
func NewEngine(
	backend storage.Backend,
	classifier *classify.Classifier,
	mover Mover,
	resolver *duplicate.Resolver,
	formatter output.Formatter,
	logger logging.Logger,
	operation *models.OrganizeOperation,
) (*Engine, error) {
	exclude, err := NewExcludeMatcher(operation.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		backend:    backend,
		classifier: classifier,
		mover:      mover,
		resolver:   resolver,
		formatter:  formatter,
		logger:     logger,
		operation:  operation,
		exclude:    exclude,
	}, nil
}

// Scan enumerates candidates: regular files in the root, then files in
// the category folders and document subfolders so an organized tree can
// be re-organized.
func (e *Engine) Scan(ctx context.Context) ([]*models.FileCandidate, error) {
	var candidates []*models.FileCandidate
	seen := make(map[string]bool)

	dirs := append([]string{""}, e.classifier.Folders()...)
	dirs = append(dirs, e.classifier.DocumentFolders()...)

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if dir != "" {
			info, err := e.backend.Stat(ctx, dir)
			if err != nil || !info.IsDir {
				continue
			}
		}

		entries, err := e.backend.ListDir(ctx, dir)
		if err != nil {
			if dir == "" {
				return nil, fmt.Errorf("failed to scan %s: %w", e.backend.Root(), err)
			}
			e.logger.Warn(ctx, "failed to scan category folder", logging.Fields{
				"folder": dir,
				"error":  err.Error(),
			})
			continue
		}

		for _, entry := range entries {
			if !entry.IsRegular || seen[entry.RelativePath] {
				continue
			}
			seen[entry.RelativePath] = true

			if e.exclude.Excluded(entry.RelativePath) {
				e.logger.Debug(ctx, "excluded", logging.Fields{"path": entry.RelativePath})
				continue
			}
			candidates = append(candidates, e.candidate(entry))
		}
	}

	return candidates, nil
}

func (e *Engine) candidate(info storage.FileInfo) *models.FileCandidate {
	res := e.classifier.Classify(info.Name)
	return &models.FileCandidate{
		RelativePath: info.RelativePath,
		AbsolutePath: info.Path,
		Name:         info.Name,
		Size:         info.Size,
		ModTime:      info.ModTime,
		Extension:    res.Extension,
		Category:     res.Category,
		Subcategory:  res.Subcategory,
		TargetDir:    res.Dir,
	}
}

// Plan returns the candidates that would move, without touching anything
func (e *Engine) Plan(ctx context.Context) ([]*models.FileCandidate, error) {
	candidates, err := e.Scan(ctx)
	if err != nil {
		return nil, err
	}

	pending := candidates[:0]
	for _, c := range candidates {
		if !c.InPlace() {
			pending = append(pending, c)
		}
	}
	return pending, nil
}

// Run executes the organize operation
func (e *Engine) Run(ctx context.Context) (*models.OrganizeReport, error) {
	startTime := time.Now()
	report := &models.OrganizeReport{
		OperationID: e.operation.ID,
		RootPath:    e.backend.Root(),
		StartTime:   startTime,
		Status:      models.RunSuccess,
	}

	now := startTime
	e.operation.StartedAt = &now

	e.logger.Info(ctx, "Starting organize operation", logging.Fields{
		"operation_id": e.operation.ID,
		"root":         report.RootPath,
		"on_duplicate": string(e.operation.DuplicatePolicy),
	})

	candidates, err := e.Scan(ctx)
	if err != nil {
		report.Status = models.RunFailed
		e.finish(ctx, report)
		if e.formatter != nil {
			e.formatter.Error(err)
		}
		return report, err
	}
	report.Stats.FilesScanned = len(candidates)

	var pendingBytes int64
	pending := 0
	for _, c := range candidates {
		if !c.InPlace() {
			pending++
			pendingBytes += c.Size
		}
	}

	if e.formatter != nil {
		e.formatter.Start(nil, pending, pendingBytes)
	}

	attempted := 0
	for i, c := range candidates {
		if ctx.Err() != nil {
			report.Status = models.RunCancelled
			break
		}

		if e.formatter != nil && !c.InPlace() {
			e.formatter.Progress(output.ProgressUpdate{
				Type:        output.UpdateFileStart,
				FilePath:    c.RelativePath,
				CurrentFile: i + 1,
				TotalFiles:  len(candidates),
			})
		}

		outcome := e.process(ctx, c, report)
		if outcome.Reason != models.ReasonAlreadyOrganized {
			attempted++
		}
		e.record(ctx, report, outcome, i+1, len(candidates))

		if outcome.Status == models.StatusFailed && errors.Is(outcome.Error, context.Canceled) {
			report.Status = models.RunCancelled
			break
		}
	}

	report.CategoryCounts = e.countCategories(ctx)

	if report.Status != models.RunCancelled && report.Stats.FilesErrored > 0 {
		if report.Stats.FilesErrored == attempted {
			report.Status = models.RunFailed
		} else {
			report.Status = models.RunPartial
		}
	}

	e.finish(ctx, report)

	if e.formatter != nil {
		e.formatter.Complete(report)
	}

	return report, nil
}

func (e *Engine) finish(ctx context.Context, report *models.OrganizeReport) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	end := report.EndTime
	e.operation.CompletedAt = &end

	e.logger.Info(ctx, "Organize operation completed", logging.Fields{
		"duration":        report.Duration.String(),
		"status":          string(report.Status),
		"files_scanned":   report.Stats.FilesScanned,
		"files_organized": report.Stats.Organized(),
		"files_skipped":   report.Stats.FilesSkipped,
		"files_errored":   report.Stats.FilesErrored,
		"folders_created": len(report.FoldersCreated),
		"bytes_moved":     report.Stats.BytesMoved,
	})
}

// process takes one candidate to its terminal state
func (e *Engine) process(ctx context.Context, c *models.FileCandidate, report *models.OrganizeReport) models.MoveOutcome {
	start := time.Now()
	outcome := models.MoveOutcome{
		Candidate:       c,
		SourcePath:      c.RelativePath,
		DestinationPath: c.TargetPath(),
	}
	done := func(status models.Status) models.MoveOutcome {
		outcome.Status = status
		outcome.Duration = time.Since(start)
		return outcome
	}
	fail := func(err error) models.MoveOutcome {
		outcome.Error = err
		outcome.Reason = err.Error()
		return done(models.StatusFailed)
	}

	if c.InPlace() {
		outcome.Reason = models.ReasonAlreadyOrganized
		return done(models.StatusSkipped)
	}

	missing, err := e.missingDirs(ctx, c.TargetDir)
	if err != nil {
		return fail(err)
	}
	created, err := e.backend.MkdirAll(ctx, c.TargetDir)
	if err != nil {
		return fail(fmt.Errorf("failed to create %s: %w", c.TargetDir, err))
	}
	if created {
		for _, dir := range missing {
			e.folderCreated(ctx, report, dir)
		}
	}

	destination := c.TargetPath()
	status := models.StatusMoved

	exists, err := e.backend.Exists(ctx, destination)
	if err != nil {
		return fail(err)
	}
	if exists {
		res, err := e.resolver.Resolve(ctx, c, destination)
		if err != nil {
			return fail(fmt.Errorf("failed to resolve duplicate: %w", err))
		}
		switch res.Decision {
		case models.DecisionSkip:
			outcome.Reason = models.ReasonDuplicateSkipped
			if res.Declined {
				outcome.Reason = models.ReasonOverwriteDeclined
			}
			return done(models.StatusSkipped)
		case models.DecisionRename:
			destination = res.Destination
			status = models.StatusRenamed
		case models.DecisionOverwrite:
			status = models.StatusOverwritten
		}
		outcome.DestinationPath = destination
	}

	res, err := e.mover.Move(ctx, e.backend.Abs(c.RelativePath), e.backend.Abs(destination))
	if res != nil {
		outcome.Attempts = res.Attempts
	}
	if err != nil {
		return fail(err)
	}
	if !res.Moved {
		return fail(fmt.Errorf("%w: %s", mover.ErrFileLocked, res.Reason))
	}

	return done(status)
}

// missingDirs returns dir and each of its ancestors below the root that
// do not exist yet, outermost first
func (e *Engine) missingDirs(ctx context.Context, dir string) ([]string, error) {
	var missing []string
	for d := filepath.Clean(dir); d != "." && d != string(filepath.Separator); d = filepath.Dir(d) {
		exists, err := e.backend.Exists(ctx, d)
		if err != nil {
			return nil, err
		}
		if exists {
			break
		}
		missing = append([]string{d}, missing...)
	}
	return missing, nil
}

func (e *Engine) folderCreated(ctx context.Context, report *models.OrganizeReport, dir string) {
	rel := filepath.ToSlash(dir)
	report.FoldersCreated = append(report.FoldersCreated, rel)
	report.Stats.DirsCreated++

	e.logger.Info(ctx, "Created folder", logging.Fields{"folder": rel})
	if e.formatter != nil {
		e.formatter.Progress(output.ProgressUpdate{
			Type:     output.UpdateFolderCreated,
			FilePath: rel,
		})
	}
}

func (e *Engine) record(ctx context.Context, report *models.OrganizeReport, outcome models.MoveOutcome, current, total int) {
	report.Outcomes = append(report.Outcomes, outcome)
	report.Stats.Record(outcome)

	fields := logging.Fields{
		"path":        outcome.SourcePath,
		"destination": outcome.DestinationPath,
		"status":      string(outcome.Status),
	}
	if outcome.Attempts > 1 {
		fields["attempts"] = outcome.Attempts
	}

	update := output.ProgressUpdate{
		Type:        output.UpdateFileComplete,
		FilePath:    outcome.SourcePath,
		CurrentFile: current,
		TotalFiles:  total,
		Outcome:     &report.Outcomes[len(report.Outcomes)-1],
	}

	switch outcome.Status {
	case models.StatusFailed:
		report.Errors = append(report.Errors, models.RunError{
			FilePath:  outcome.SourcePath,
			Error:     outcome.Reason,
			Timestamp: time.Now(),
		})
		e.logger.Error(ctx, "Failed to organize file", outcome.Error, fields)
		update.Type = output.UpdateFileError
		update.Error = outcome.Error
	case models.StatusSkipped:
		fields["reason"] = outcome.Reason
		e.logger.Debug(ctx, "Skipped file", fields)
	default:
		e.logger.Info(ctx, "Organized file", fields)
	}

	if e.formatter != nil {
		e.formatter.Progress(update)
	}
}

// countCategories counts the regular files in each existing category
// folder, keyed by slash-separated folder path
func (e *Engine) countCategories(ctx context.Context) map[string]int {
	counts := make(map[string]int)
	documents := e.classifier.CategoryFolder(classify.CategoryDocuments)

	dirs := append(e.classifier.Folders(), e.classifier.DocumentFolders()...)
	for _, dir := range dirs {
		info, err := e.backend.Stat(ctx, dir)
		if err != nil || !info.IsDir {
			continue
		}
		entries, err := e.backend.ListDir(ctx, dir)
		if err != nil {
			continue
		}

		n := 0
		for _, entry := range entries {
			if entry.IsRegular {
				n++
			}
		}
		// The documents folder itself only counts its loose files
		if dir == documents && n == 0 {
			continue
		}
		counts[filepath.ToSlash(dir)] = n
	}
	return counts
}
