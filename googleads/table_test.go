package googleads

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableConcat(t *testing.T) {
	a := NewTable([]string{"campaign.id", "metrics.clicks"})
	a.Append([]any{"1", float64(10)})

	b := NewTable([]string{"campaign.id", "metrics.clicks"})
	b.Append([]any{"2", float64(20)})
	b.Append([]any{"3", nil})

	require.NoError(t, a.Concat(b))
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, []any{"1", "2", "3"}, a.Column("campaign.id"))

	mismatched := NewTable([]string{"campaign.id"})
	assert.Error(t, a.Concat(mismatched))

	renamed := NewTable([]string{"campaign.id", "metrics.impressions"})
	assert.Error(t, a.Concat(renamed))
}

func TestTableColumnMissing(t *testing.T) {
	table := NewTable([]string{"campaign.id"})
	table.Append([]any{"1"})
	assert.Nil(t, table.Column("metrics.clicks"))
}

func TestTableWriteCSV(t *testing.T) {
	table := NewTable([]string{"campaign.id", "campaign.name", "metrics.impressions"})
	table.Append([]any{"1", "Brand", float64(1200)})
	table.Append([]any{"2", nil, float64(0.5)})

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	assert.Equal(t,
		"campaign.id,campaign.name,metrics.impressions\n"+
			"1,Brand,1200\n"+
			"2,,0.5\n",
		buf.String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "abc", FormatValue("abc"))
	assert.Equal(t, "1200", FormatValue(float64(1200)))
	assert.Equal(t, "0.25", FormatValue(float64(0.25)))
	assert.Equal(t, "true", FormatValue(true))
}
