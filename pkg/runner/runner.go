package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/gocitations/internal/logging"
	"github.com/yaklabco/gocitations/pkg/plugin"
)

// Runner rewrites files by firing a plugin trigger once per file.
type Runner struct {
	// Plugin must be loaded before Run.
	Plugin *plugin.Plugin

	// Trigger is the host event fired for every file.
	Trigger plugin.Trigger

	// Logger receives per-file progress. Defaults to the logger carried by
	// the run context.
	Logger *log.Logger
}

// New creates a runner that fires trigger on plug.
func New(plug *plugin.Plugin, trigger plugin.Trigger) *Runner {
	return &Runner{Plugin: plug, Trigger: trigger}
}

func (r *Runner) logger(ctx context.Context) *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logging.FromContext(ctx)
}

// Run discovers files and processes them with a bounded worker pool.
// Outcomes are returned in path order regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	r.logger(ctx).Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, opts Options) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := FileOutcome{Path: path}
		outcome.Result, outcome.Error = r.ProcessFile(ctx, path, opts)

		if outcome.Error != nil {
			r.logger(ctx).Debug("file failed", logging.FieldPath, path, logging.FieldError, outcome.Error)
		} else {
			r.logger(ctx).Debug("file processed",
				logging.FieldPath, path,
				"status", outcome.Result.Status(),
				logging.FieldSubstitutions, outcome.Result.Substitutions())
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
