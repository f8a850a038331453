package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_TwelveCategories(t *testing.T) {
	cat := Default()
	require.Len(t, cat.Categories, 12)
	assert.Len(t, cat.BySource(SourceExposure), 11)
	assert.Len(t, cat.BySource(SourceDirect), 1)
	assert.Equal(t, "Smoking", cat.BySource(SourceDirect)[0].Label)
}

func TestDefault_MeasuresAndScale(t *testing.T) {
	cat := Default()
	assert.Equal(t, 5, cat.Measures.Prevalence)
	assert.Equal(t, 6, cat.Measures.Incidence)
	assert.Equal(t, 11000.0, cat.ScaleFactor)
	assert.Equal(t, "Diet high in sugar-sweetened beverages", cat.DefaultCategory)
	assert.Len(t, cat.Regions, 6)
	assert.Equal(t, []string{"Male", "Female"}, cat.Sexes)
}

func TestLabels_Sorted(t *testing.T) {
	labels := Default().Labels()
	require.Len(t, labels, 12)
	assert.IsIncreasing(t, labels)
	assert.Contains(t, labels, "Smoking")
}

func TestLookup(t *testing.T) {
	cat := Default()

	c, ok := cat.Lookup("High body-mass index")
	require.True(t, ok)
	assert.Equal(t, "bmi", c.Key)

	_, ok = cat.Lookup("Diet high in red meat")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "bad key pattern",
			src: `
categories: [{label: "Smoking", key: "Smoking!", source: "direct"}]
measures: {prevalence: 5, incidence: 6}
regions: ["America"]
sexes: ["Male"]
defaultCategory: "Smoking"
scaleFactor: 1
`,
			want: "cue",
		},
		{
			name: "duplicate key",
			src: `
categories: [
	{label: "Smoking", key: "smoking", source: "direct"},
	{label: "Tobacco", key: "smoking", source: "exposure"},
]
measures: {prevalence: 5, incidence: 6}
regions: ["America"]
sexes: ["Male"]
defaultCategory: "Smoking"
scaleFactor: 1
`,
			want: "duplicate key",
		},
		{
			name: "no direct cause",
			src: `
categories: [{label: "Diet low in milk", key: "milk", source: "exposure"}]
measures: {prevalence: 5, incidence: 6}
regions: ["America"]
sexes: ["Male"]
defaultCategory: "Diet low in milk"
scaleFactor: 1
`,
			want: "exactly one direct-cause",
		},
		{
			name: "unknown default",
			src: `
categories: [{label: "Smoking", key: "smoking", source: "direct"}]
measures: {prevalence: 5, incidence: 6}
regions: ["America"]
sexes: ["Male"]
defaultCategory: "Diet low in milk"
scaleFactor: 1
`,
			want: "not a category label",
		},
		{
			name: "same measure codes",
			src: `
categories: [{label: "Smoking", key: "smoking", source: "direct"}]
measures: {prevalence: 5, incidence: 5}
regions: ["America"]
sexes: ["Male"]
defaultCategory: "Smoking"
scaleFactor: 1
`,
			want: "must differ",
		},
		{
			name: "too few categories",
			src: `
categories: [
	{label: "Smoking", key: "smoking", source: "direct"},
	{label: "Diet low in milk", key: "milk", source: "exposure"},
]
measures: {prevalence: 5, incidence: 6}
regions: ["America"]
sexes: ["Male"]
defaultCategory: "Smoking"
scaleFactor: 1
`,
			want: "expected 12 categories, got 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test.cue")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWithCategories_DoesNotAlias(t *testing.T) {
	cat := Default()
	reversed := make([]Category, len(cat.Categories))
	for i, c := range cat.Categories {
		reversed[len(reversed)-1-i] = c
	}

	cp := cat.WithCategories(reversed)
	assert.Equal(t, "Smoking", cp.Categories[0].Label)
	assert.Equal(t, "High LDL cholesterol", cat.Categories[0].Label)
	assert.Equal(t, cat.Labels(), cp.Labels())
}
