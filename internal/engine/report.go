package engine

import (
	"sort"
)

// Finding is a single row-level validation failure.
type Finding struct {
	// Row is the 1-based spreadsheet row the failure belongs to, counting
	// the header row, so the first data row is row 2.
	Row int

	// Field is the template column that failed.
	Field string

	// Message describes the failure ("field required", "must be numeric",
	// "invalid tax code").
	Message string
}

// Findings groups findings by row number. An empty map means the file passed
// validation.
type Findings map[int][]Finding

// Empty reports whether no row produced a finding.
func (f Findings) Empty() bool { return len(f) == 0 }

// Total returns the number of individual findings across all rows.
func (f Findings) Total() int {
	n := 0
	for _, fs := range f {
		n += len(fs)
	}
	return n
}

// Flatten returns all findings ordered by ascending row number, preserving
// discovery order within a row.
func (f Findings) Flatten() []Finding {
	rows := make([]int, 0, len(f))
	for row := range f {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	out := make([]Finding, 0, f.Total())
	for _, row := range rows {
		out = append(out, f[row]...)
	}
	return out
}

// Artifact is the single result of processing one input file: either a
// template-conformant output or an error report, never both and never a
// mixture. Modelling the branch as a closed sum forces every consumer to
// handle both shapes.
type Artifact interface {
	artifact()
}

// MappedOutput is the accepted branch: the template header plus one output
// row per input row.
type MappedOutput struct {
	Header []string
	Rows   [][]string
}

// ErrorReport is the rejected branch: the flattened findings for every row
// that failed validation.
type ErrorReport struct {
	Findings []Finding
}

func (MappedOutput) artifact() {}
func (ErrorReport) artifact()  {}

// Select picks the artifact for a processed file. Any finding anywhere
// rejects the whole file; otherwise the projected rows are emitted
// unchanged. There is no partial mode: a file is fully accepted or fully
// rejected, though the report itself stays row-granular.
func Select(header []string, rows [][]string, findings Findings) Artifact {
	if !findings.Empty() {
		return ErrorReport{Findings: findings.Flatten()}
	}
	return MappedOutput{Header: header, Rows: rows}
}
