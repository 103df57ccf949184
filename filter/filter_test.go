package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmetrics/adsdata/googleads"
)

func testTable() *googleads.Table {
	table := googleads.NewTable([]string{"campaign.id", "campaign.name", "metrics.impressions"})
	table.Append([]any{"1", "Brand US", "1200"})
	table.Append([]any{"2", "Generic DE", "90"})
	table.Append([]any{"3", "Brand DE", nil})
	return table
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile("  ")
	var compErr *CompilationError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, "empty expression", compErr.Reason)

	_, err = Compile("campaign.name ==")
	assert.ErrorAs(t, err, &compErr)
}

func TestApplyColumnReference(t *testing.T) {
	f, err := Compile(`campaign.id == "2"`)
	require.NoError(t, err)

	out, err := f.Apply(testTable())
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Generic DE", out.Rows[0][1])
}

func TestApplyStringHelpers(t *testing.T) {
	f, err := Compile(`contains(campaign.name, "brand")`)
	require.NoError(t, err)

	out, err := f.Apply(testTable())
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
}

func TestApplyNumericCoercion(t *testing.T) {
	f, err := Compile(`num(metrics.impressions) > 100`)
	require.NoError(t, err)

	out, err := f.Apply(testTable())
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "1", out.Rows[0][0])
}

func TestApplyNilComparison(t *testing.T) {
	f, err := Compile(`metrics.impressions == nil`)
	require.NoError(t, err)

	out, err := f.Apply(testTable())
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "3", out.Rows[0][0])
}

func TestApplyPreservesColumns(t *testing.T) {
	f, err := Compile(`true`)
	require.NoError(t, err)

	table := testTable()
	out, err := f.Apply(table)
	require.NoError(t, err)
	assert.Equal(t, table.Columns, out.Columns)
	assert.Equal(t, table.Len(), out.Len())
}

func TestExpression(t *testing.T) {
	f, err := Compile(`  true  `)
	require.NoError(t, err)
	assert.Equal(t, "true", f.Expression())
}
