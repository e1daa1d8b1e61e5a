package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectReturnsMappedOutputWhenClean(t *testing.T) {
	header := []string{"Part Number"}
	rows := [][]string{{"A1"}, {"B2"}}

	artifact := Select(header, rows, Findings{})

	out, ok := artifact.(MappedOutput)
	require.True(t, ok)
	assert.Equal(t, header, out.Header)
	assert.Equal(t, rows, out.Rows, "accepted rows pass through unchanged")
}

func TestSelectReturnsErrorReportOnAnyFinding(t *testing.T) {
	findings := Findings{
		2: {{2, "Part Number", "field required"}},
	}

	artifact := Select([]string{"Part Number"}, [][]string{{""}}, findings)

	report, ok := artifact.(ErrorReport)
	require.True(t, ok)
	assert.Len(t, report.Findings, 1)
}

func TestFindingsFlattenOrder(t *testing.T) {
	findings := Findings{
		7: {{7, "Cost ex Tax", "must be numeric"}},
		2: {
			{2, "Part Number", "field required"},
			{2, "Tax Code", "invalid tax code"},
		},
		4: {{4, "Part Number", "field required"}},
	}

	flat := findings.Flatten()

	require.Len(t, flat, 4)
	assert.Equal(t, []int{2, 2, 4, 7}, []int{flat[0].Row, flat[1].Row, flat[2].Row, flat[3].Row})
	// Discovery order within a row is preserved.
	assert.Equal(t, "Part Number", flat[0].Field)
	assert.Equal(t, "Tax Code", flat[1].Field)
}

func TestFindingsEmptyAndTotal(t *testing.T) {
	assert.True(t, Findings{}.Empty())
	assert.Zero(t, Findings{}.Total())

	f := Findings{2: {{2, "a", "x"}, {2, "b", "y"}}, 3: {{3, "c", "z"}}}
	assert.False(t, f.Empty())
	assert.Equal(t, 3, f.Total())
}
