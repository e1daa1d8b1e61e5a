package engine

import (
	"strings"

	"github.com/fieldstack/simport/internal/mapper"
	"github.com/fieldstack/simport/internal/template"
)

// Project builds the template-shaped output rows from the raw input rows.
// It always returns exactly len(rows) output rows, even when the mapping is
// empty: an unmappable file still accounts for every source row, and
// judgment on the cell contents is deferred to Validate.
//
// Per template column: a mapped source cell is used as-is (empty when the
// ragged source row is too short); a cell that ends up empty, mapped or not,
// takes the column's configured default. Cells destined for required-numeric
// columns are scrubbed of thousands separators so "1,299.00" survives the
// numeric check downstream.
func Project(rows [][]string, mapping mapper.Mapping, schema *template.Schema) [][]string {
	numeric := make(map[string]bool, len(schema.RequiredNumeric))
	for _, col := range schema.RequiredNumeric {
		numeric[col] = true
	}

	out := make([][]string, len(rows))
	for r, row := range rows {
		projected := make([]string, len(schema.Columns))
		for c, col := range schema.Columns {
			var value string
			if src, ok := mapping.Source(col); ok && src < len(row) {
				value = strings.TrimSpace(row[src])
			}
			if value == "" {
				value = schema.Default(col)
			}
			if numeric[col] {
				value = scrubCurrency(value)
			}
			projected[c] = value
		}
		out[r] = projected
	}
	return out
}

// scrubCurrency removes thousands separators from a currency-like cell.
func scrubCurrency(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
}
