// Package config loads and validates the simport configuration: the simPRO
// template definition (columns, aliases, defaults, validation rules) plus
// service settings. Configuration is read once at startup; the Schema built
// from it is immutable and shared by every conversion.
package config

import (
	"fmt"

	"github.com/fieldstack/simport/internal/mapper"
	"github.com/fieldstack/simport/internal/template"
)

// Config is the full application configuration after merging defaults,
// config file, environment and flags.
type Config struct {
	TemplateColumns  []string            `koanf:"template_columns"`
	Defaults         map[string]string   `koanf:"defaults"`
	Aliases          map[string][]string `koanf:"aliases"`
	AllowedTaxCodes  []string            `koanf:"allowed_tax_codes"`
	RequiredNonempty []string            `koanf:"required_nonempty"`
	RequiredNumeric  []string            `koanf:"required_numeric"`
	TaxCodeColumn    string              `koanf:"tax_code_column"`

	InputDir  string `koanf:"input_dir"`
	OutputDir string `koanf:"output_dir"`
	Verbose   bool   `koanf:"verbose"`

	Server ServerConfig `koanf:"server"`

	schema *template.Schema
}

// ServerConfig holds settings for the HTTP service.
type ServerConfig struct {
	Port        int   `koanf:"port"`
	MaxUploadMB int64 `koanf:"max_upload_mb"`
}

// Schema returns the validated template schema built during Load.
func (c *Config) Schema() *template.Schema { return c.schema }

// buildSchema assembles the template schema from the raw configuration and
// enforces its invariants, including that no two template columns collapse
// to the same normalized name (which would make exact matching ambiguous).
func (c *Config) buildSchema() (*template.Schema, error) {
	s := &template.Schema{
		Columns:          c.TemplateColumns,
		Defaults:         c.Defaults,
		Aliases:          c.Aliases,
		AllowedTaxCodes:  c.AllowedTaxCodes,
		RequiredNonempty: c.RequiredNonempty,
		RequiredNumeric:  c.RequiredNumeric,
		TaxCodeColumn:    c.TaxCodeColumn,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	normalized := make(map[string]string, len(s.Columns))
	for _, col := range s.Columns {
		n := mapper.Normalize(col)
		if n == "" {
			return nil, fmt.Errorf("template column %q normalizes to nothing", col)
		}
		if prev, dup := normalized[n]; dup {
			return nil, fmt.Errorf("template columns %q and %q normalize identically", prev, col)
		}
		normalized[n] = col
	}

	return s, nil
}
