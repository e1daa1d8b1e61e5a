// Package engine implements the schema-mapping pipeline: project raw rows
// onto the simPRO template, validate them, and select either the mapped
// output or an error report.
package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/fieldstack/simport/internal/mapper"
	"github.com/fieldstack/simport/internal/template"
)

// Engine runs the conversion pipeline against one template schema. It holds
// no per-file state, so a single Engine is safe for concurrent use across
// requests.
type Engine struct {
	schema *template.Schema
	logger *slog.Logger
}

// Stats summarizes one Process invocation for logs and CLI output. It never
// influences the artifact itself.
type Stats struct {
	RunID           string   `json:"run_id"`
	InputRows       int      `json:"input_rows"`
	MappedHeaders   int      `json:"mapped_headers"`
	UnmappedHeaders []string `json:"unmapped_headers,omitempty"`
	UnfilledColumns []string `json:"unfilled_columns,omitempty"`
	FindingCount    int      `json:"finding_count"`
}

// New creates an Engine for the given schema. A nil logger discards logs.
func New(schema *template.Schema, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{schema: schema, logger: logger}
}

// Schema returns the template schema the engine was built with.
func (e *Engine) Schema() *template.Schema { return e.schema }

// Process runs the full pipeline for one input file: resolve the headers
// once, project every row, validate the projection, and select the artifact.
// It never fails; malformed data surfaces as an ErrorReport, and exactly one
// output row is accounted for per input row regardless of how many headers
// resolved.
func (e *Engine) Process(headers []string, rows [][]string) (Artifact, Stats) {
	mapping := mapper.Resolve(headers, e.schema)
	projected := Project(rows, mapping, e.schema)
	findings := Validate(projected, e.schema)
	artifact := Select(e.schema.Columns, projected, findings)

	stats := Stats{
		RunID:           uuid.NewString(),
		InputRows:       len(rows),
		MappedHeaders:   mapping.MappedCount(),
		UnmappedHeaders: mapping.Unmapped(headers),
		UnfilledColumns: e.unfilledColumns(mapping),
		FindingCount:    findings.Total(),
	}

	e.logger.Info("processed file",
		"run_id", stats.RunID,
		"rows", stats.InputRows,
		"mapped_headers", stats.MappedHeaders,
		"unmapped_headers", len(stats.UnmappedHeaders),
		"findings", stats.FindingCount,
		"accepted", findings.Empty(),
	)

	return artifact, stats
}

// unfilledColumns lists template columns no raw header resolved to; they are
// emitted with defaults (or blank) in every row.
func (e *Engine) unfilledColumns(mapping mapper.Mapping) []string {
	var out []string
	for _, col := range e.schema.Columns {
		if _, ok := mapping.Source(col); !ok {
			out = append(out, col)
		}
	}
	return out
}
