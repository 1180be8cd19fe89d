package reporter

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yaklabco/gocitations/internal/ui/pretty"
	"github.com/yaklabco/gocitations/pkg/runner"
)

// TextReporter writes one line per file followed by a summary line.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	changed, lines := 0, 0
	for _, file := range result.Files {
		path := r.styles.FilePath.Render(displayPath(file.Path, r.opts.WorkingDir))

		switch {
		case file.Error != nil:
			lines++
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		case file.Result == nil:
			continue
		case file.Result.Skipped:
			lines++
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Skipped.Render(file.Result.Status()))
		case file.Result.Changed:
			changed++
			lines++
			fmt.Fprintf(r.bw, "%s: %s %s\n", path,
				r.styles.Changed.Render(file.Result.Status()),
				r.styles.Dim.Render(formatCounts(file.Result)))
		case r.opts.ShowUnchanged:
			lines++
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Unchanged.Render(file.Result.Status()))
		}
	}

	if r.opts.ShowSummary {
		if lines > 0 {
			fmt.Fprintln(r.bw)
		}
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Pending))
		if len(result.Stats.ByRule) > 0 {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("by rule: "+formatByRule(result.Stats.ByRule)))
		}
	}

	return changed, nil
}

// formatCounts renders "(3 substitutions: QT001×1, QT005×2)".
func formatCounts(res *runner.FileResult) string {
	var parts []string
	for _, c := range res.Counts {
		if c.Count > 0 {
			parts = append(parts, fmt.Sprintf("%s×%d", c.Rule.ID, c.Count))
		}
	}
	total := res.Substitutions()
	word := "substitutions"
	if total == 1 {
		word = "substitution"
	}
	return fmt.Sprintf("(%d %s: %s)", total, word, strings.Join(parts, ", "))
}

func formatByRule(byRule map[string]int) string {
	ids := make([]string, 0, len(byRule))
	for id := range byRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s=%d", id, byRule[id]))
	}
	return strings.Join(parts, " ")
}
