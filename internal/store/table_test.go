package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pdscatter/internal/catalog"
	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/testutil"
)

func sampleTable(t *testing.T) *dataset.Table {
	return testutil.Table(t,
		testutil.Observation{Location: "Japan", Sex: "Male", Year: 2005, Region: "East Asia & Pacific", Exposure: 0.1, Risk: map[string]float64{"smoking": 0.42}, Prevalence: 0.002, Incidence: 0.0003},
		testutil.Observation{Location: "Japan", Sex: "Female", Year: 2005, Region: "East Asia & Pacific", Exposure: 0.2, Prevalence: 0.003, Incidence: 0.0004},
		testutil.Observation{Location: "Chile", Sex: "Male", Year: 1990, Region: "America", Exposure: 0.3, Prevalence: 0.001, Incidence: 0.0002},
	)
}

func TestSaveLoadTable_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := sampleTable(t)

	require.NoError(t, s.SaveTable(ctx, want))

	got, err := s.LoadTable(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, want.Rows(), got.Rows())
	assert.Equal(t, want.Catalog().Categories, got.Catalog().Categories)
	assert.Equal(t, want.Locations(), got.Locations())
	assert.Equal(t, want.MaxIncidence(), got.MaxIncidence())
}

func TestSaveTable_Replaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTable(ctx, sampleTable(t)))
	smaller := testutil.Table(t, testutil.Observation{
		Location: "Peru", Sex: "Female", Year: 2000, Region: "America", Prevalence: 0.001, Incidence: 0.0001,
	})
	require.NoError(t, s.SaveTable(ctx, smaller))

	got, err := s.LoadTable(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, []string{"Peru"}, got.Locations())
}

func TestLoadTable_Empty(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LoadTable(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrNoTable), "got %v", err)
}

func TestLoadTable_MissingRiskIsIntegrityError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveTable(ctx, sampleTable(t)))

	_, err := s.db.Exec(`DELETE FROM unified_risks WHERE location = 'Chile' AND category_key = 'sugar'`)
	require.NoError(t, err)

	_, err = s.LoadTable(ctx, nil)
	require.Error(t, err)
	assert.True(t, dataset.IsMissingCategory(err), "got %v", err)
}

func TestLoadTable_InvalidCategoriesRejected(t *testing.T) {
	tests := []struct {
		name  string
		stmts []string
		want  string
	}{
		{
			name: "category dropped",
			stmts: []string{
				`DELETE FROM unified_risks WHERE category_key = 'sodium'`,
				`DELETE FROM categories WHERE key = 'sodium'`,
			},
			want: "expected 12 categories, got 11",
		},
		{
			name:  "second direct cause",
			stmts: []string{`UPDATE categories SET source = 'direct' WHERE key = 'sugar'`},
			want:  "exactly one direct-cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestStore(t)
			ctx := context.Background()
			require.NoError(t, s.SaveTable(ctx, sampleTable(t)))
			for _, stmt := range tt.stmts {
				_, err := s.db.Exec(stmt)
				require.NoError(t, err)
			}

			_, err := s.LoadTable(ctx, nil)
			require.Error(t, err)
			var catErr *catalog.Error
			require.True(t, errors.As(err, &catErr), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStats(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, TableStats{}, empty)

	require.NoError(t, s.SaveTable(ctx, sampleTable(t)))
	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, TableStats{Rows: 3, Categories: 12, Locations: 2, YearMin: 1990, YearMax: 2005}, st)
}
