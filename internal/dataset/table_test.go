package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pdscatter/internal/catalog"
	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/testutil"
)

func TestTable_Accessors(t *testing.T) {
	tab := testutil.Table(t, observations()...)

	min, max := tab.YearRange()
	assert.Equal(t, 2005, min)
	assert.Equal(t, 2006, max)

	assert.Equal(t, []string{"Chile", "Japan", "Kenya"}, tab.Locations())
	assert.Equal(t, []string{"America", "East Asia & Pacific", "Sub-Saharan Africa"}, tab.Regions())
	assert.Equal(t, catalog.Default().Labels(), tab.Categories())
	assert.InDelta(t, 0.0004, tab.MaxIncidence(), 1e-12)

	assert.Len(t, tab.YearRows(2005), 3)
	assert.Len(t, tab.YearRows(2006), 2)
	assert.Empty(t, tab.YearRows(1990))

	assert.Equal(t, []float64{0.3, 0.4, 0.2, 0.1, 0.5}, tab.Column("sugar"))

	key, ok := tab.ColumnKey("Smoking")
	require.True(t, ok)
	assert.Equal(t, "smoking", key)
	_, ok = tab.ColumnKey("Diet low in fibre")
	assert.False(t, ok)
}

func TestTable_RowsAreCopies(t *testing.T) {
	tab := testutil.Table(t, observations()...)

	rows := tab.Rows()
	rows[0].Location = "Mutated"
	rows[0].Risk["sugar"] = 99
	assert.Equal(t, "Chile", tab.Rows()[0].Location)
	assert.Equal(t, 0.3, tab.Rows()[0].Risk["sugar"])

	cats := tab.Categories()
	cats[0] = "Mutated"
	assert.NotEqual(t, "Mutated", tab.Categories()[0])
}

func TestNewTable_RejectsDuplicateKeys(t *testing.T) {
	rows := testutil.Table(t, observations()...).Rows()
	rows = append(rows, rows[2])

	_, err := dataset.NewTable(rows, catalog.Default())
	require.Error(t, err)
	assert.True(t, dataset.IsDuplicateKey(err))
}

func TestNewTable_RejectsMissingRiskColumn(t *testing.T) {
	rows := testutil.Table(t, observations()...).Rows()
	delete(rows[0].Risk, "veg")

	_, err := dataset.NewTable(rows, catalog.Default())
	require.Error(t, err)
	assert.True(t, dataset.IsMissingCategory(err))
}

func TestNewTable_Empty(t *testing.T) {
	_, err := dataset.NewTable(nil, catalog.Default())
	require.Error(t, err)
	assert.True(t, dataset.IsDataIntegrityError(err))
}
