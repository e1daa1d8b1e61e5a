package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstack/simport/internal/testutil"
)

func TestProcessAcceptsCleanExport(t *testing.T) {
	eng := New(testSchema(), testutil.NewTestLogger(t))

	headers := []string{"Part #", "Cost (ex tax)", "Sell Ex-Tax", "TaxCode"}
	rows := [][]string{
		{"A1", "10.00", "15.00", "G"},
		{"B2", "1,299.00", "1,499.00", "f"},
	}

	artifact, stats := eng.Process(headers, rows)

	out, ok := artifact.(MappedOutput)
	require.True(t, ok, "clean export must produce MappedOutput, got %T", artifact)

	assert.Equal(t, testSchema().Columns, out.Header)
	require.Len(t, out.Rows, 2, "output cardinality must match input")
	assert.Equal(t, []string{"A1", "10.00", "15.00", "G", "ea"}, out.Rows[0])
	assert.Equal(t, []string{"B2", "1299.00", "1499.00", "f", "ea"}, out.Rows[1])

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 2, stats.InputRows)
	assert.Equal(t, 4, stats.MappedHeaders)
	assert.Empty(t, stats.UnmappedHeaders)
	assert.Equal(t, []string{"UOM"}, stats.UnfilledColumns)
	assert.Zero(t, stats.FindingCount)
}

func TestProcessRejectsInvalidRows(t *testing.T) {
	eng := New(testSchema(), testutil.NewTestLogger(t))

	headers := []string{"Part #", "Cost (ex tax)", "Sell Ex-Tax", "TaxCode"}
	rows := [][]string{
		{"A1", "10.00", "15.00", "G"}, // clean
		{"", "10.00", "15.00", "X"},   // missing part number, bad tax code
	}

	artifact, stats := eng.Process(headers, rows)

	report, ok := artifact.(ErrorReport)
	require.True(t, ok, "one bad row rejects the whole file, got %T", artifact)

	// Only the bad row reports, with its findings in discovery order.
	require.Len(t, report.Findings, 2)
	assert.Equal(t, Finding{3, "Part Number", "field required"}, report.Findings[0])
	assert.Equal(t, Finding{3, "Tax Code", "invalid tax code"}, report.Findings[1])

	// Both input rows were still processed.
	assert.Equal(t, 2, stats.InputRows)
	assert.Equal(t, 2, stats.FindingCount)
}

func TestProcessUnmappableFile(t *testing.T) {
	eng := New(testSchema(), nil)

	artifact, stats := eng.Process([]string{"Colour", "Weight"}, [][]string{{"red", "1kg"}})

	// Nothing mapped, so the single row is all defaults; Part Number is
	// blank and required, so the file is rejected rather than silently
	// emitted empty.
	report, ok := artifact.(ErrorReport)
	require.True(t, ok)
	assert.Equal(t, Finding{2, "Part Number", "field required"}, report.Findings[0])

	assert.Equal(t, 1, stats.InputRows)
	assert.Equal(t, 0, stats.MappedHeaders)
	assert.Equal(t, []string{"Colour", "Weight"}, stats.UnmappedHeaders)
}

func TestProcessEmptyFile(t *testing.T) {
	eng := New(testSchema(), nil)

	artifact, stats := eng.Process([]string{"Part Number"}, nil)

	out, ok := artifact.(MappedOutput)
	require.True(t, ok, "a headers-only file has no rows to fail validation")
	assert.Empty(t, out.Rows)
	assert.Zero(t, stats.InputRows)
}

func TestProcessIsIndependentAcrossCalls(t *testing.T) {
	eng := New(testSchema(), nil)

	headers := []string{"Part Number", "Cost ex Tax", "Sell ex Tax"}
	good := [][]string{{"A1", "1", "2"}}
	bad := [][]string{{"", "x", "y"}}

	_, _ = eng.Process(headers, bad)
	artifact, _ := eng.Process(headers, good)

	_, ok := artifact.(MappedOutput)
	assert.True(t, ok, "a rejected file must not leak state into the next call")
}
