package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// LineKind classifies a diff line.
type LineKind int

const (
	// LineContext is an unchanged line.
	LineContext LineKind = iota

	// LineAdd is a line present only in the rewritten text.
	LineAdd

	// LineRemove is a line present only in the original text.
	LineRemove
)

// Line is one line of a hunk, without its diff prefix.
type Line struct {
	Kind    LineKind
	Content string
}

// Hunk is a contiguous group of changes with surrounding context.
// Start positions are 1-based line numbers.
type Hunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []Line
}

// Diff is a unified diff between an original document and its rewrite.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// GenerateDiff returns the unified diff from original to modified, or nil if
// they are equal.
//
// Punctuation rewrites never add or remove line breaks, so lines are compared
// position by position. If the line counts differ anyway, the whole document
// becomes a single hunk.
func GenerateDiff(path, original, modified string) *Diff {
	if original == modified {
		return nil
	}

	origLines := splitLines(original)
	modLines := splitLines(modified)

	var hunks []Hunk
	if len(origLines) == len(modLines) {
		hunks = alignedHunks(origLines, modLines)
	} else {
		hunks = []Hunk{replaceAllHunk(origLines, modLines)}
	}
	if len(hunks) == 0 {
		// Only a trailing newline differs.
		return nil
	}

	diff := &Diff{Path: path, Hunks: hunks}
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdd:
				diff.Additions++
			case LineRemove:
				diff.Deletions++
			}
		}
	}
	return diff
}

// HasChanges reports whether the diff contains at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String renders the diff in unified format, without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)
	for _, hunk := range d.Hunks {
		builder.WriteString(hunk.Header())
		builder.WriteByte('\n')
		for _, line := range hunk.Lines {
			builder.WriteString(line.Prefix())
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

// Header returns the "@@ -a,b +c,d @@" line for the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@",
		h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// Prefix returns the unified diff marker for the line.
func (l Line) Prefix() string {
	switch l.Kind {
	case LineAdd:
		return "+"
	case LineRemove:
		return "-"
	default:
		return " "
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// alignedHunks diffs two equally long line slices.
func alignedHunks(orig, mod []string) []Hunk {
	var changed []int
	for i := range orig {
		if orig[i] != mod[i] {
			changed = append(changed, i)
		}
	}
	if len(changed) == 0 {
		return nil
	}

	var hunks []Hunk
	for first := 0; first < len(changed); {
		last := first
		for last+1 < len(changed) && changed[last+1]-changed[last] <= 2*contextLines {
			last++
		}

		start := max(changed[first]-contextLines, 0)
		end := min(changed[last]+contextLines+1, len(orig))
		hunks = append(hunks, buildAlignedHunk(orig, mod, start, end))

		first = last + 1
	}
	return hunks
}

func buildAlignedHunk(orig, mod []string, start, end int) Hunk {
	hunk := Hunk{
		OriginalStart: start + 1,
		OriginalCount: end - start,
		ModifiedStart: start + 1,
		ModifiedCount: end - start,
	}

	for i := start; i < end; {
		if orig[i] == mod[i] {
			hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, Content: orig[i]})
			i++
			continue
		}

		runEnd := i
		for runEnd < end && orig[runEnd] != mod[runEnd] {
			runEnd++
		}
		for j := i; j < runEnd; j++ {
			hunk.Lines = append(hunk.Lines, Line{Kind: LineRemove, Content: orig[j]})
		}
		for j := i; j < runEnd; j++ {
			hunk.Lines = append(hunk.Lines, Line{Kind: LineAdd, Content: mod[j]})
		}
		i = runEnd
	}
	return hunk
}

func replaceAllHunk(orig, mod []string) Hunk {
	hunk := Hunk{
		OriginalCount: len(orig),
		ModifiedCount: len(mod),
	}
	if len(orig) > 0 {
		hunk.OriginalStart = 1
	}
	if len(mod) > 0 {
		hunk.ModifiedStart = 1
	}
	for _, line := range orig {
		hunk.Lines = append(hunk.Lines, Line{Kind: LineRemove, Content: line})
	}
	for _, line := range mod {
		hunk.Lines = append(hunk.Lines, Line{Kind: LineAdd, Content: line})
	}
	return hunk
}
