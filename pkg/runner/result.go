package runner

import (
	"github.com/yaklabco/gocitations/pkg/fix"
	"github.com/yaklabco/gocitations/pkg/rewrite"
)

// FileResult is what happened to a single file.
type FileResult struct {
	Path string

	// Changed is true if the rewrite altered the content.
	Changed bool

	// Counts holds per-rule substitution counts, in rule order.
	Counts []rewrite.RuleCount

	// Diff is set for changed files in dry-run and check mode.
	Diff *fix.Diff

	// Skipped is true if the file was left alone; SkipReason says why.
	Skipped    bool
	SkipReason string

	BackupCreated bool
	Written       bool
}

// Substitutions returns the total substitutions made in the file.
func (r *FileResult) Substitutions() int {
	return rewrite.Result{Counts: r.Counts}.Substitutions()
}

// Status returns a short human-readable state.
func (r *FileResult) Status() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "rewritten (backup created)"
	case r.Written:
		return "rewritten"
	case r.Changed:
		return "changes pending"
	default:
		return "unchanged"
	}
}

// FileOutcome pairs a path with its result or error.
type FileOutcome struct {
	Path   string
	Result *FileResult
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int
	FilesChanged    int
	FilesWritten    int
	BackupsCreated  int
	Substitutions   int

	// ByRule maps rule IDs to substitution counts.
	ByRule map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome
	Stats Stats
}

// HasChanges reports whether any file changed or would change.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func newStats() Stats {
	return Stats{ByRule: make(map[string]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	res := outcome.Result
	r.Stats.FilesProcessed++
	if res.Skipped {
		r.Stats.FilesSkipped++
	}
	if res.Changed {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.BackupCreated {
		r.Stats.BackupsCreated++
	}
	for _, c := range res.Counts {
		if c.Count == 0 {
			continue
		}
		r.Stats.ByRule[c.Rule.ID] += c.Count
		r.Stats.Substitutions += c.Count
	}
}
