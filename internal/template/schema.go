// Package template defines the fixed simPRO import template that generated
// output files must conform to.
package template

import (
	"fmt"
	"strings"
)

// Schema describes the import template: the ordered output columns plus the
// mapping and validation rules attached to them. It is built once at startup
// from configuration and treated as read-only afterwards, so a single Schema
// may serve any number of concurrent conversions.
type Schema struct {
	// Columns is the ordered header of every generated template file.
	Columns []string

	// Defaults maps a column name to the value used when no source cell
	// populates it.
	Defaults map[string]string

	// Aliases maps a column name to raw header spellings known to mean it.
	Aliases map[string][]string

	// AllowedTaxCodes is the closed set of accepted tax codes, compared
	// case-insensitively.
	AllowedTaxCodes []string

	// RequiredNonempty lists columns that must hold a non-blank value.
	RequiredNonempty []string

	// RequiredNumeric lists columns whose non-blank values must parse as
	// decimal numbers.
	RequiredNumeric []string

	// TaxCodeColumn names the column checked against AllowedTaxCodes.
	TaxCodeColumn string
}

// Validate checks the structural invariants the rest of the pipeline relies
// on: at least one column, and every rule, default and alias pointing at a
// column that actually exists. The configuration loader calls this once so
// that defects fail startup rather than a request.
func (s *Schema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("template_columns must not be empty")
	}

	seen := make(map[string]struct{}, len(s.Columns))
	for _, col := range s.Columns {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("template_columns contains a blank column name")
		}
		if _, dup := seen[col]; dup {
			return fmt.Errorf("duplicate template column %q", col)
		}
		seen[col] = struct{}{}
	}

	for col := range s.Defaults {
		if !s.HasColumn(col) {
			return fmt.Errorf("default configured for unknown column %q", col)
		}
	}
	for col := range s.Aliases {
		if !s.HasColumn(col) {
			return fmt.Errorf("alias configured for unknown column %q", col)
		}
	}
	for _, col := range s.RequiredNonempty {
		if !s.HasColumn(col) {
			return fmt.Errorf("required_nonempty names unknown column %q", col)
		}
	}
	for _, col := range s.RequiredNumeric {
		if !s.HasColumn(col) {
			return fmt.Errorf("required_numeric names unknown column %q", col)
		}
	}
	if s.TaxCodeColumn != "" && !s.HasColumn(s.TaxCodeColumn) {
		return fmt.Errorf("tax_code_column names unknown column %q", s.TaxCodeColumn)
	}

	return nil
}

// HasColumn reports whether name is one of the template columns.
func (s *Schema) HasColumn(name string) bool {
	for _, col := range s.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Default returns the configured default value for a column, or "".
func (s *Schema) Default(column string) string {
	return s.Defaults[column]
}

// AllowsTaxCode reports whether code is in the allowed set. The comparison
// is case-insensitive; membership of the empty string is never tested here
// (blank tax codes are the required_nonempty rule's concern).
func (s *Schema) AllowsTaxCode(code string) bool {
	for _, allowed := range s.AllowedTaxCodes {
		if strings.EqualFold(code, allowed) {
			return true
		}
	}
	return false
}
