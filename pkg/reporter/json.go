package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gocitations/pkg/runner"
)

// jsonVersion is the schema version of JSONOutput.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string         `json:"path"`
	Changed       bool           `json:"changed"`
	Written       bool           `json:"written"`
	Backup        bool           `json:"backup,omitempty"`
	Skipped       bool           `json:"skipped,omitempty"`
	SkipReason    string         `json:"skipReason,omitempty"`
	Substitutions int            `json:"substitutions"`
	ByRule        map[string]int `json:"byRule,omitempty"`
	Diff          string         `json:"diff,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked   int            `json:"filesChecked"`
	FilesChanged   int            `json:"filesChanged"`
	FilesWritten   int            `json:"filesWritten"`
	FilesSkipped   int            `json:"filesSkipped"`
	FilesErrored   int            `json:"filesErrored"`
	BackupsCreated int            `json:"backupsCreated"`
	Substitutions  int            `json:"substitutions"`
	ByRule         map[string]int `json:"byRule"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{ByRule: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		entry := JSONFileResult{Path: displayPath(file.Path, r.opts.WorkingDir)}

		if file.Error != nil {
			entry.Error = file.Error.Error()
			output.Files = append(output.Files, entry)
			continue
		}

		if res := file.Result; res != nil {
			entry.Changed = res.Changed
			entry.Written = res.Written
			entry.Backup = res.BackupCreated
			entry.Skipped = res.Skipped
			entry.SkipReason = res.SkipReason
			entry.Substitutions = res.Substitutions()
			for _, c := range res.Counts {
				if c.Count == 0 {
					continue
				}
				if entry.ByRule == nil {
					entry.ByRule = make(map[string]int)
				}
				entry.ByRule[c.Rule.ID] = c.Count
			}
			if res.Diff.HasChanges() {
				entry.Diff = res.Diff.String()
			}
		}
		output.Files = append(output.Files, entry)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked:   stats.FilesProcessed,
		FilesChanged:   stats.FilesChanged,
		FilesWritten:   stats.FilesWritten,
		FilesSkipped:   stats.FilesSkipped,
		FilesErrored:   stats.FilesErrored,
		BackupsCreated: stats.BackupsCreated,
		Substitutions:  stats.Substitutions,
		ByRule:         make(map[string]int, len(stats.ByRule)),
	}
	for id, n := range stats.ByRule {
		output.Summary.ByRule[id] = n
	}

	return output
}
