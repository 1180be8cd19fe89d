package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/gocitations/pkg/fix"
	"github.com/yaklabco/gocitations/pkg/fsutil"
	"github.com/yaklabco/gocitations/pkg/plugin"
)

// Per-file error categories.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrRewriteFailure   = errors.New("rewrite failure")
	ErrWriteFailure     = errors.New("write failure")
)

// Skip reasons reported in FileResult.SkipReason.
const (
	SkipBinary             = "binary content"
	SkipGenerated          = "generated file"
	SkipConcurrentModified = "file modified during processing"
)

// ProcessFile runs one file through the plugin the way a host would: the file
// becomes the active editor, the trigger fires, and the editor's final text
// is written back.
//
// Steps:
//  1. Read and hash the file.
//  2. Skip binary and generated content.
//  3. Fire the trigger against an in-memory editor.
//  4. In dry-run or check mode, diff and stop.
//  5. Skip the write if the file changed on disk meanwhile.
//  6. Back up the original, then write atomically.
func (r *Runner) ProcessFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	result := &FileResult{Path: path}

	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	if enry.IsBinary(original) {
		result.Skipped, result.SkipReason = true, SkipBinary
		return result, nil
	}
	if enry.IsGenerated(path, original) {
		result.Skipped, result.SkipReason = true, SkipGenerated
		return result, nil
	}

	editor := plugin.NewBufferEditor(string(original))
	outcome, err := r.Plugin.Fire(ctx, r.Trigger, plugin.NewStaticHost(editor))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRewriteFailure, err)
	}

	result.Changed = outcome.Changed
	result.Counts = outcome.Counts
	if !outcome.Changed {
		return result, nil
	}

	rewritten := editor.Value()

	if !opts.writes() {
		result.Diff = fix.GenerateDiff(path, string(original), rewritten)
		return result, nil
	}

	modified, err := fsutil.CheckModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped, result.SkipReason = true, SkipConcurrentModified
		return result, nil
	}

	created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	result.BackupCreated = created

	if err := fsutil.WriteAtomic(ctx, path, []byte(rewritten), info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}
