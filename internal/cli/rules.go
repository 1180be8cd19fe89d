package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocitations/internal/ui/pretty"
	"github.com/yaklabco/gocitations/pkg/rewrite"
)

const formatJSON = "json"

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	Order       int    `json:"order"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

func newRulesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the substitution rules",
		Long: `List the substitution rules in the order they are applied.

Each rule replaces every occurrence of its pattern before the next rule
runs, so later rules see the output of earlier ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := rewrite.DefaultTable()
			out := cmd.OutOrStdout()

			switch format {
			case formatJSON:
				return outputRulesJSON(out, table)
			case "text", "":
				colorMode, err := cmd.Flags().GetString("color")
				if err != nil {
					colorMode = pretty.ColorAuto
				}
				styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, out))
				_, err = fmt.Fprint(out, styles.FormatRulesTable(table))
				return err
			default:
				return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// outputRulesJSON writes the rules as a JSON array.
func outputRulesJSON(out io.Writer, table rewrite.Table) error {
	infos := make([]ruleInfo, 0, len(table))
	for i, rule := range table {
		infos = append(infos, ruleInfo{
			Order:       i + 1,
			ID:          rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Pattern:     rule.Pattern,
			Replacement: rule.Replacement,
		})
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
