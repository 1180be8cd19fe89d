// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// File status
	FilePath  lipgloss.Style
	Changed   lipgloss.Style
	Unchanged lipgloss.Style
	Skipped   lipgloss.Style
	Error     lipgloss.Style

	// Rule listing
	RuleID      lipgloss.Style
	RuleName    lipgloss.Style
	Glyph       lipgloss.Style
	TableHeader lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Summary styles
	Success lipgloss.Style
	Failure lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	return &Styles{
		FilePath:  lipgloss.NewStyle().Bold(true),
		Changed:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Unchanged: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Skipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		RuleID:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		RuleName:    lipgloss.NewStyle().Bold(true),
		Glyph:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),

		DiffHeader:  lipgloss.NewStyle().Bold(true),
		DiffHunk:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		DiffAdd:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		DiffRemove:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		DiffContext: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		FilePath:    plain,
		Changed:     plain,
		Unchanged:   plain,
		Skipped:     plain,
		Error:       plain,
		RuleID:      plain,
		RuleName:    plain,
		Glyph:       plain,
		TableHeader: plain,
		DiffHeader:  plain,
		DiffHunk:    plain,
		DiffAdd:     plain,
		DiffRemove:  plain,
		DiffContext: plain,
		Success:     plain,
		Failure:     plain,
		Dim:         plain,
		Bold:        plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
