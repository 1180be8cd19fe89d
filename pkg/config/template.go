package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yaklabco/gocitations/pkg/rewrite"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// Template output formats.
const (
	TemplateFormatYAML = "yaml"
	TemplateFormatJSON = "json"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every rewrite rule in the template.
	Full bool

	// Format is "yaml" (default) or "json". JSON output carries no comments.
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == TemplateFormatJSON {
		return templateToJSON()
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# File extensions rewritten when a directory is given
extensions:
  - .md
  - .markdown
  - .txt

# Leave fenced and indented code, code spans and raw HTML untouched
preserve_code: false

# Markdown flavor used to find code: commonmark or gfm
flavor: commonmark

# Backups of rewritten files
backups:
  enabled: true
  mode: sidecar

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

# Where plugin settings are stored (default: $XDG_CONFIG_HOME/gocitations/data.yml)
# settings_file: ""
`)

	if opts.Full {
		writeRuleComments(&buf)
	}

	return buf.Bytes(), nil
}

// writeRuleComments documents the fixed rule table. Rules are not
// configurable, so they only appear as comments.
func writeRuleComments(buf *bytes.Buffer) {
	buf.WriteString("\n# Rewrite rules, applied in this order:\n")
	for _, rule := range rewrite.DefaultTable() {
		fmt.Fprintf(buf, "#\n# %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(buf, "#   %s\n", wrapComment(rule.Description, commentWrapWidth))
		fmt.Fprintf(buf, "#   %q -> %q\n", rule.Pattern, rule.Replacement)
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""

	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#   ")
}

func templateToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(NewConfig(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// DefaultTemplateHeader returns the header for generated configs.
func DefaultTemplateHeader() string {
	return `# gocitations configuration
# See: https://github.com/yaklabco/gocitations`
}
