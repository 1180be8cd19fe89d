// Package reporter writes rewrite results as text, JSON or unified diffs.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gocitations/pkg/runner"
)

// Reporter formats and writes rewrite results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of changed files reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Compile-time interface checks.
var (
	_ Reporter = (*TextReporter)(nil)
	_ Reporter = (*JSONReporter)(nil)
	_ Reporter = (*DiffReporter)(nil)
)

// New creates a reporter for opts.Format. An empty format selects text.
func New(opts Options) (Reporter, error) {
	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatText:
		return NewTextReporter(opts), nil
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
