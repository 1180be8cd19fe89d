package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gocitations/pkg/runner"
)

// plural returns word with an "s" unless n is one.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatSummaryOneLine formats run statistics as a single line, for example
// "3 files rewritten, 12 substitutions (2 files unchanged)".
// pending selects wording for dry-run and check mode, where nothing is written.
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, pending bool) string {
	unchanged := stats.FilesProcessed - stats.FilesChanged - stats.FilesSkipped
	if unchanged < 0 {
		unchanged = 0
	}

	var parts []string

	switch {
	case stats.FilesChanged == 0:
		parts = append(parts, s.Success.Render("No replacements needed")+
			s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesProcessed, "file"))))
	case pending:
		parts = append(parts, s.Changed.Render(plural(stats.FilesChanged, "file")+" would change")+
			", "+plural(stats.Substitutions, "substitution"))
	default:
		parts = append(parts, s.Success.Render(plural(stats.FilesWritten, "file")+" rewritten")+
			", "+plural(stats.Substitutions, "substitution"))
	}

	if stats.FilesChanged > 0 && unchanged > 0 {
		parts[0] += s.Dim.Render(fmt.Sprintf(" (%s unchanged)", plural(unchanged, "file")))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Skipped.Render(plural(stats.FilesSkipped, "file")+" skipped"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(plural(stats.FilesErrored, "error")))
	}

	return strings.Join(parts, ", ") + "\n"
}
