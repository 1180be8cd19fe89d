package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gocitations/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command    lipgloss.Style
	Heading    lipgloss.Style
	Subcommand lipgloss.Style
	Flag       lipgloss.Style
	Example    lipgloss.Style
	Dim        lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{
			Command:    plain,
			Heading:    plain,
			Subcommand: plain,
			Flag:       plain,
			Example:    plain,
			Dim:        plain,
		}
	}
	return &HelpStyles{
		Command:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Example:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders Cobra help and usage with HelpStyles.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}{{if .Runnable}}
  {{ command .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}{{if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}{{end}}{{if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}{{end}}{{if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{end}}{{if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{end}}{{if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimTrailing . }}

{{end}}{{if or .Runnable .HasSubCommands}}{{ usage . }}{{end}}`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":      h.styles.Heading.Render,
		"command":      h.styles.Command.Render,
		"subcommand":   h.styles.Subcommand.Render,
		"example":      h.styles.Example.Render,
		"dim":          h.styles.Dim.Render,
		"flags":        h.renderFlags,
		"join":         strings.Join,
		"rpad":         rpad,
		"trimTrailing": trimTrailingWhitespaces,
	}
}

// ApplyToCommand installs the styled help and usage functions on cmd. Cobra
// inherits them in every subcommand.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()

	usageTmpl := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	renderUsage := func(command *cobra.Command) (string, error) {
		var builder strings.Builder
		if err := usageTmpl.Execute(&builder, command); err != nil {
			return "", fmt.Errorf("render usage: %w", err)
		}
		return builder.String(), nil
	}

	funcs["usage"] = renderUsage
	helpTmpl := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		text, err := renderUsage(command)
		if err != nil {
			return err
		}
		_, err = io.WriteString(command.OutOrStderr(), text)
		return err
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := helpTmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// renderFlags styles pflag's FlagUsages output line by line.
func (h *HelpFormatter) renderFlags(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine colors the flag names of "  -f, --flag type   description"
// and dims the type.
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	gap := strings.Index(trimmed, "  ")
	if gap < 0 {
		return line
	}
	definition, description := trimmed[:gap], strings.TrimLeft(trimmed[gap:], " ")

	tokens := strings.Fields(definition)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.Dim.Render(token)
			continue
		}
		name := strings.TrimSuffix(token, ",")
		tokens[i] = h.styles.Flag.Render(name) + strings.TrimPrefix(token, name)
	}

	return indent + strings.Join(tokens, " ") + "   " + description
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
