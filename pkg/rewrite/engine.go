package rewrite

import (
	"context"
	"sync"
)

// RuleCount records how many substitutions a rule made.
type RuleCount struct {
	Rule  Rule
	Count int
}

// Result is the outcome of a detailed rewrite.
type Result struct {
	// Text is the document after all rules were applied.
	Text string

	// Changed is true iff Text differs from the input.
	Changed bool

	// Counts holds one entry per rule, in table order.
	Counts []RuleCount
}

// Substitutions returns the total number of substitutions across all rules.
func (r Result) Substitutions() int {
	var total int
	for _, c := range r.Counts {
		total += c.Count
	}
	return total
}

// Engine applies a rule table to whole documents.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	table Table
}

// NewEngine creates an engine over a copy of table.
func NewEngine(table Table) *Engine {
	owned := make(Table, len(table))
	copy(owned, table)
	return &Engine{table: owned}
}

//nolint:gochecknoglobals // Lazily built shared engine over the fixed table.
var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the shared engine over DefaultTable.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewEngine(DefaultTable())
	})
	return defaultEngine
}

// Apply rewrites document with the default engine.
func Apply(document string) (string, bool) {
	return Default().Apply(document)
}

// Table returns a copy of the engine's rules.
func (e *Engine) Table() Table {
	table := make(Table, len(e.table))
	copy(table, e.table)
	return table
}

// Apply runs every rule in order and reports whether the text changed.
func (e *Engine) Apply(document string) (string, bool) {
	text := document
	for _, rule := range e.table {
		text, _ = rule.Apply(text)
	}
	return text, text != document
}

// ApplyDetailed runs every rule in order and records per-rule counts.
func (e *Engine) ApplyDetailed(document string) Result {
	counts := make([]RuleCount, len(e.table))
	text := document
	for i, rule := range e.table {
		var n int
		text, n = rule.Apply(text)
		counts[i] = RuleCount{Rule: rule, Count: n}
	}
	return Result{
		Text:    text,
		Changed: text != document,
		Counts:  counts,
	}
}

// Rewrite is ApplyDetailed for callers that carry a context. It fails only if
// ctx is already done.
func (e *Engine) Rewrite(ctx context.Context, document string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return e.ApplyDetailed(document), nil
}
