// Package domain implements the incremental style-check engine: change
// detection against the hash registry, checker invocation and result
// aggregation.
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"lintgate.dev/pkg/lintgate/internal/adapter"
	"lintgate.dev/pkg/lintgate/internal/controller"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// ScanArgs selects the files to consider and the registry to compare against.
type ScanArgs struct {
	Paths         []m.Path
	Exclude       []string
	Extensions    []string
	Recursive     bool
	Registry      m.Path
	HashAlgorithm string
	UseCache      bool
}

// CheckArgs contains the arguments for an incremental check run.
type CheckArgs struct {
	ScanArgs
	Report  m.Path
	Threads int
	Checker []string
	Filter  FilterRuleSet
	Timeout time.Duration
}

// PruneArgs contains the arguments for pruning stale registry entries.
type PruneArgs struct {
	Registry m.Path
}

// Workflow defines the user-facing operations of lintgate.
type Workflow interface {
	// Check runs the checker on every changed file and persists the registry.
	// It returns ErrStyleViolations when any file failed.
	Check(ctx context.Context, args CheckArgs) (m.RunResult, error)
	// List reports which files would be checked, without running the checker.
	List(ctx context.Context, args ScanArgs) error
	// Prune removes registry entries whose file no longer exists.
	Prune(ctx context.Context, args PruneArgs) ([]m.Path, error)
}

type workflow struct {
	fsAdapter     adapter.SourceFSAdapter
	registryStore adapter.RegistryStore
	checker       adapter.CheckerAdapter
	reportStore   adapter.ReportStore
	ui            controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	registryStore adapter.RegistryStore,
	checker adapter.CheckerAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		fsAdapter:     fsAdapter,
		registryStore: registryStore,
		checker:       checker,
		reportStore:   reportStore,
		ui:            ui,
	}
}

func (args ScanArgs) walkOptions() adapter.WalkOptions {
	extensions := args.Extensions
	if len(extensions) == 0 {
		extensions = adapter.DefaultExtensions
	}

	return adapter.WalkOptions{
		Extensions: extensions,
		Exclude:    args.Exclude,
		Recursive:  args.Recursive,
	}
}

func (w *workflow) scan(ctx context.Context, args ScanArgs) (*m.Registry, []m.Path, error) {
	registry, err := w.registryStore.Load(ctx, args.Registry)
	if err != nil {
		slog.Error("Failed to load registry", "path", args.Registry, "error", err)
		return nil, nil, fmt.Errorf("load registry: %w", err)
	}

	files, err := w.fsAdapter.Walk(ctx, args.Paths, args.walkOptions())
	if err != nil {
		slog.Error("Failed to discover files", "paths", args.Paths, "error", err)
		return nil, nil, fmt.Errorf("discover files: %w", err)
	}

	return registry, files, nil
}

func (w *workflow) Check(ctx context.Context, args CheckArgs) (m.RunResult, error) {
	result := m.RunResult{Started: time.Now()}

	hasher, err := adapter.NewHasher(args.HashAlgorithm)
	if err != nil {
		return result, err
	}

	registry, files, err := w.scan(ctx, args.ScanArgs)
	if err != nil {
		return result, err
	}

	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	if err := w.ui.Start(ctx, controller.WithCheckMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return result, err
	}

	// The registry and report are persisted even when ctx is cancelled.
	persistCtx := context.WithoutCancel(ctx)
	defer w.ui.Close(persistCtx)

	w.ui.DisplayRunInfo(ctx, len(files), threads)

	detector := NewChangeDetector(w.fsAdapter, hasher, args.UseCache)
	invoker := NewCheckInvoker(w.checker, args.Checker, args.Filter, args.Timeout)

	result.Outcomes = w.checkFiles(ctx, files, threads, registry, detector, invoker)
	result.Finished = time.Now()

	if err := w.registryStore.Save(persistCtx, args.Registry, registry); err != nil {
		slog.Error("Failed to save registry", "path", args.Registry, "error", err)
		return result, fmt.Errorf("save registry: %w", err)
	}

	if args.Report != "" {
		if err := w.reportStore.SaveReport(persistCtx, args.Report, result); err != nil {
			slog.Error("Failed to save report", "path", args.Report, "error", err)
			return result, fmt.Errorf("save report: %w", err)
		}
	}

	w.ui.DisplaySummary(persistCtx, result)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("check interrupted: %w", err)
	}

	if result.Failed() {
		failed := 0

		for _, outcome := range result.Outcomes {
			if outcome.Status.Failed() {
				failed++
			}
		}

		return result, fmt.Errorf("%w: %d of %d file(s) failed", ErrStyleViolations, failed, len(result.Outcomes))
	}

	return result, nil
}

// checkFiles runs one unit of work per file on a bounded pool. Outcomes keep
// the order of files; files not scheduled before ctx is cancelled are omitted.
func (w *workflow) checkFiles(
	ctx context.Context,
	files []m.Path,
	threads int,
	registry *m.Registry,
	detector ChangeDetector,
	invoker CheckInvoker,
) []m.CheckOutcome {
	outcomes := make([]m.CheckOutcome, len(files))
	scheduled := 0

	var group errgroup.Group
	group.SetLimit(threads)

	for i, path := range files {
		if ctx.Err() != nil {
			slog.Warn("Check cancelled, skipping remaining files", "remaining", len(files)-i)
			break
		}

		scheduled++

		i, path := i, path
		group.Go(func() error {
			outcome := w.checkFile(ctx, registry, detector, invoker, path)
			outcomes[i] = outcome

			w.ui.DisplayCompletedCheck(ctx, outcome)

			return nil
		})
	}

	_ = group.Wait()

	return outcomes[:scheduled]
}

func (w *workflow) checkFile(
	ctx context.Context,
	registry *m.Registry,
	detector ChangeDetector,
	invoker CheckInvoker,
	path m.Path,
) m.CheckOutcome {
	candidate, err := detector.Detect(ctx, registry, path)
	if err != nil {
		return m.CheckOutcome{File: candidate.File, Status: m.AccessError, Err: err}
	}

	if !candidate.Changed {
		return m.CheckOutcome{File: candidate.File, Status: m.Unchanged}
	}

	outcome := invoker.Check(ctx, candidate.File)
	if outcome.Status == m.Clean {
		registry.Update(path, candidate.File.Hash)
	}

	return outcome
}

func (w *workflow) List(ctx context.Context, args ScanArgs) error {
	hasher, err := adapter.NewHasher(args.HashAlgorithm)
	if err != nil {
		return err
	}

	registry, files, err := w.scan(ctx, args)
	if err != nil {
		return err
	}

	if err := w.ui.Start(ctx, controller.WithListMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	defer w.ui.Close(context.WithoutCancel(ctx))

	detector := NewChangeDetector(w.fsAdapter, hasher, args.UseCache)
	candidates := make([]m.Candidate, 0, len(files))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		candidate, err := detector.Detect(ctx, registry, path)
		if err != nil {
			slog.Warn("Unreadable file listed as changed", "path", path, "error", err)

			candidate.Changed = true
		}

		candidates = append(candidates, candidate)
	}

	return w.ui.DisplayCandidates(ctx, candidates)
}

func (w *workflow) Prune(ctx context.Context, args PruneArgs) ([]m.Path, error) {
	registry, err := w.registryStore.Load(ctx, args.Registry)
	if err != nil {
		slog.Error("Failed to load registry", "path", args.Registry, "error", err)
		return nil, fmt.Errorf("load registry: %w", err)
	}

	var removed []m.Path

	for _, entry := range registry.Entries() {
		exists, err := w.fsAdapter.Exists(ctx, entry.Path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Path, err)
		}

		if !exists && registry.Delete(entry.Path) {
			removed = append(removed, entry.Path)
		}
	}

	if len(removed) > 0 {
		if err := w.registryStore.Save(ctx, args.Registry, registry); err != nil {
			slog.Error("Failed to save registry", "path", args.Registry, "error", err)
			return nil, fmt.Errorf("save registry: %w", err)
		}
	}

	w.ui.DisplayPruned(ctx, removed)

	return removed, nil
}
