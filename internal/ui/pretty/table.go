package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gocitations/pkg/rewrite"
)

const tablePadding = 2

// FormatRulesTable renders the rule table in application order with columns
// for ID, name, pattern and replacement.
func (s *Styles) FormatRulesTable(table rewrite.Table) string {
	headers := []string{"#", "ID", "NAME", "PATTERN", "REPLACEMENT"}
	rows := make([][]string, 0, len(table))
	for i, rule := range table {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			rule.ID,
			rule.Name,
			quoteGlyphs(rule.Pattern),
			quoteGlyphs(rule.Replacement),
		})
	}

	widths := make([]int, len(headers))
	for col, header := range headers {
		widths[col] = lipgloss.Width(header)
	}
	for _, row := range rows {
		for col, cell := range row {
			widths[col] = max(widths[col], lipgloss.Width(cell))
		}
	}

	var builder strings.Builder
	writeRow := func(cells []string, style func(col int, cell string) string) {
		for col, cell := range cells {
			padded := cell + strings.Repeat(" ", widths[col]-lipgloss.Width(cell))
			if col < len(cells)-1 {
				padded += strings.Repeat(" ", tablePadding)
			} else {
				padded = strings.TrimRight(padded, " ")
			}
			builder.WriteString(style(col, padded))
		}
		builder.WriteByte('\n')
	}

	writeRow(headers, func(_ int, cell string) string { return s.TableHeader.Render(cell) })
	for _, row := range rows {
		writeRow(row, func(col int, cell string) string {
			switch col {
			case 1:
				return s.RuleID.Render(cell)
			case 2:
				return s.RuleName.Render(cell)
			case 3, 4:
				return s.Glyph.Render(cell)
			default:
				return cell
			}
		})
	}

	return builder.String()
}

// quoteGlyphs wraps text in brackets so lone quote characters stay visible.
func quoteGlyphs(text string) string {
	return "[" + text + "]"
}
