package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fieldstack/simport/internal/config"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the effective template schema",
		Long: `Show the template schema in effect after merging defaults, the config
file, environment variables and flags: columns in output order, their
aliases and defaults, and the validation rules applied to each.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			if asJSON {
				return printSchemaJSON(cmd, cfg)
			}
			printSchemaTable(cmd, cfg)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the schema as JSON")
	return cmd
}

func printSchemaJSON(cmd *cobra.Command, cfg *config.Config) error {
	out := struct {
		TemplateColumns  []string            `json:"template_columns"`
		Defaults         map[string]string   `json:"defaults"`
		Aliases          map[string][]string `json:"aliases"`
		AllowedTaxCodes  []string            `json:"allowed_tax_codes"`
		RequiredNonempty []string            `json:"required_nonempty"`
		RequiredNumeric  []string            `json:"required_numeric"`
		TaxCodeColumn    string              `json:"tax_code_column"`
	}{
		TemplateColumns:  cfg.TemplateColumns,
		Defaults:         cfg.Defaults,
		Aliases:          cfg.Aliases,
		AllowedTaxCodes:  cfg.AllowedTaxCodes,
		RequiredNonempty: cfg.RequiredNonempty,
		RequiredNumeric:  cfg.RequiredNumeric,
		TaxCodeColumn:    cfg.TaxCodeColumn,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSchemaTable(cmd *cobra.Command, cfg *config.Config) {
	schema := cfg.Schema()

	required := make(map[string][]string)
	for _, col := range schema.RequiredNonempty {
		required[col] = append(required[col], "nonempty")
	}
	for _, col := range schema.RequiredNumeric {
		required[col] = append(required[col], "numeric")
	}
	if schema.TaxCodeColumn != "" {
		required[schema.TaxCodeColumn] = append(required[schema.TaxCodeColumn],
			"one of "+strings.Join(schema.AllowedTaxCodes, "/"))
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	if term.IsTerminal(int(os.Stdout.Fd())) {
		t.SetStyle(table.StyleLight)
	}

	t.AppendHeader(table.Row{"#", "Column", "Aliases", "Default", "Rules"})
	for i, col := range schema.Columns {
		t.AppendRow(table.Row{
			i + 1,
			col,
			strings.Join(schema.Aliases[col], ", "),
			schema.Default(col),
			strings.Join(required[col], ", "),
		})
	}
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "%d columns, tax codes: %s\n",
		len(schema.Columns), strings.Join(schema.AllowedTaxCodes, ", "))
}
