package engine

import (
	"strconv"
	"strings"

	"github.com/fieldstack/simport/internal/template"
)

// Validation messages. These are the exact strings written into error
// reports, so downstream tooling can match on them.
const (
	msgRequired   = "field required"
	msgNumeric    = "must be numeric"
	msgInvalidTax = "invalid tax code"
)

// firstDataRow is the spreadsheet row number of the first data row: rows are
// 1-based and row 1 is the header.
const firstDataRow = 2

// Validate checks every projected row against the schema's rules and
// collects findings instead of failing. Rules per row:
//
//   - required_nonempty columns must hold a non-blank value;
//   - required_numeric columns must parse as a decimal when non-blank
//     (blank cells pass here; blankness is the nonempty rule's concern);
//   - the tax-code column, when non-blank, must be a case-insensitive
//     member of the allowed set.
//
// Rows with no findings contribute nothing to the result.
func Validate(rows [][]string, schema *template.Schema) Findings {
	index := make(map[string]int, len(schema.Columns))
	for i, col := range schema.Columns {
		index[col] = i
	}

	findings := make(Findings)
	for r, row := range rows {
		rowNum := r + firstDataRow

		for _, col := range schema.RequiredNonempty {
			if strings.TrimSpace(cellAt(row, index, col)) == "" {
				findings[rowNum] = append(findings[rowNum], Finding{rowNum, col, msgRequired})
			}
		}

		for _, col := range schema.RequiredNumeric {
			v := strings.TrimSpace(cellAt(row, index, col))
			if v != "" && !isDecimal(v) {
				findings[rowNum] = append(findings[rowNum], Finding{rowNum, col, msgNumeric})
			}
		}

		if schema.TaxCodeColumn != "" {
			v := strings.TrimSpace(cellAt(row, index, schema.TaxCodeColumn))
			if v != "" && !schema.AllowsTaxCode(v) {
				findings[rowNum] = append(findings[rowNum], Finding{rowNum, schema.TaxCodeColumn, msgInvalidTax})
			}
		}
	}

	return findings
}

func cellAt(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// isDecimal reports whether a cell parses as a decimal number after currency
// cleanup. Digits, dots and minus signs are kept and everything else is
// dropped first, so "$1,299.95" passes while "N/A" or "TBD" do not.
func isDecimal(s string) bool {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	switch cleaned {
	case "", ".", "-", "-.", ".-":
		return false
	}
	_, err := strconv.ParseFloat(cleaned, 64)
	return err == nil
}
