// Package rewrite implements the ordered punctuation rewrite pipeline.
//
// A Table is an ordered list of literal substitution rules. Each rule replaces
// every non-overlapping occurrence of its pattern, scanning left to right, and
// its output is the input of the next rule. Later rules depend on text produced
// by earlier ones, so the order of DefaultTable must not change.
package rewrite

import (
	"strings"
)

// Typographic characters produced or consumed by the default table.
const (
	Apostrophe          = "'"
	StraightDoubleQuote = "\""
	RightSingleQuote    = "\u2019" // ’
	LeftDoubleQuote     = "\u201c" // “
	RightDoubleQuote    = "\u201d" // ”
)

// Rule is a single literal pattern-to-replacement substitution.
type Rule struct {
	// ID is the stable rule identifier (e.g. "QT001").
	ID string

	// Name is the kebab-case rule name (e.g. "comma-double-quote").
	Name string

	// Description explains what the rule rewrites.
	Description string

	// Pattern is the literal sequence to match. Matching is case-sensitive.
	Pattern string

	// Replacement is the literal text substituted for each match.
	Replacement string
}

// Apply replaces every non-overlapping occurrence of the rule's pattern.
// It returns the rewritten text and the number of substitutions made.
func (r Rule) Apply(text string) (string, int) {
	if r.Pattern == "" {
		return text, 0
	}
	n := strings.Count(text, r.Pattern)
	if n == 0 {
		return text, 0
	}
	return strings.ReplaceAll(text, r.Pattern, r.Replacement), n
}

// Table is an ordered sequence of rules.
type Table []Rule

// DefaultTable returns a copy of the built-in rule table.
func DefaultTable() Table {
	table := make(Table, len(defaultRules))
	copy(table, defaultRules)
	return table
}

// Lookup finds a rule by ID or name, ignoring case.
func (t Table) Lookup(key string) (Rule, bool) {
	for _, rule := range t {
		if strings.EqualFold(rule.ID, key) || strings.EqualFold(rule.Name, key) {
			return rule, true
		}
	}
	return Rule{}, false
}

// defaultRules is the fixed rule order.
//
//nolint:gochecknoglobals // Read-only rule table; copied by DefaultTable.
var defaultRules = []Rule{
	{
		ID:          "QT001",
		Name:        "comma-double-apostrophe",
		Description: "comma followed by two apostrophes becomes closing double quote and comma",
		Pattern:     "," + Apostrophe + Apostrophe,
		Replacement: RightDoubleQuote + ",",
	},
	{
		ID:          "QT002",
		Name:        "comma-double-quote",
		Description: "comma followed by a straight double quote becomes closing double quote and comma",
		Pattern:     "," + StraightDoubleQuote,
		Replacement: RightDoubleQuote + ",",
	},
	{
		ID:          "QT003",
		Name:        "double-apostrophe",
		Description: "two consecutive apostrophes become a closing double quote",
		Pattern:     Apostrophe + Apostrophe,
		Replacement: RightDoubleQuote,
	},
	{
		ID:          "QT004",
		Name:        "apostrophe",
		Description: "straight apostrophe becomes a curly apostrophe",
		Pattern:     Apostrophe,
		Replacement: RightSingleQuote,
	},
	{
		ID:          "QT005",
		Name:        "double-quote",
		Description: "straight double quote becomes a closing double quote",
		Pattern:     StraightDoubleQuote,
		Replacement: RightDoubleQuote,
	},
	{
		ID:          "QT006",
		Name:        "comma-closing-quote",
		Description: "comma before a closing double quote moves after the quote",
		Pattern:     "," + RightDoubleQuote,
		Replacement: RightDoubleQuote + ",",
	},
	{
		// Opening and closing double quotes are never paired; every opening
		// mark collapses to the closing glyph.
		ID:          "QT007",
		Name:        "opening-double-quote",
		Description: "opening double quote becomes a closing double quote",
		Pattern:     LeftDoubleQuote,
		Replacement: RightDoubleQuote,
	},
}
