package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pdscatter/internal/projection"
	"github.com/roach88/pdscatter/internal/testutil"
)

func TestNewControls(t *testing.T) {
	tab := testutil.Table(t, mixed()...)
	c := projection.NewControls(tab)

	assert.Equal(t, 2005, c.YearMin)
	assert.Equal(t, 2006, c.YearMax)
	assert.Equal(t, []string{projection.NoCountry, "Chile", "Japan"}, c.Countries)
	assert.Len(t, c.Categories, 12)
	assert.IsIncreasing(t, c.Categories)
	assert.Equal(t, "Diet high in sugar-sweetened beverages", c.DefaultCategory)
}

func TestControls_Default(t *testing.T) {
	c := projection.NewControls(testutil.Table(t, mixed()...))

	assert.Equal(t, projection.Selection{
		Year:     2005,
		Country:  projection.NoCountry,
		Category: "Diet high in sugar-sweetened beverages",
	}, c.Default())
}

func TestControls_Validate(t *testing.T) {
	c := projection.NewControls(testutil.Table(t, mixed()...)).WithYears(1990, 2017)

	tests := []struct {
		name  string
		sel   projection.Selection
		field string
	}{
		{"valid", projection.Selection{Year: 1990, Country: "Japan", Category: "Smoking"}, ""},
		{"no country", projection.Selection{Year: 2017, Country: projection.NoCountry, Category: "Smoking"}, ""},
		{"year below", projection.Selection{Year: 1989, Country: "Japan", Category: "Smoking"}, "year"},
		{"year above", projection.Selection{Year: 2018, Country: "Japan", Category: "Smoking"}, "year"},
		{"unknown country", projection.Selection{Year: 2000, Country: "Atlantis", Category: "Smoking"}, "country"},
		{"empty country", projection.Selection{Year: 2000, Country: "", Category: "Smoking"}, "country"},
		{"unknown category", projection.Selection{Year: 2000, Country: "Japan", Category: "smoking"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Validate(tt.sel)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var se *projection.SelectionError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}
