package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/roach88/pdscatter/internal/dataset"
)

// ErrUnknownCategory is returned when a selection names a category the
// table does not carry. Selectors are built from the table's own category
// list, so this indicates a caller bug or bad external input.
var ErrUnknownCategory = errors.New("unknown risk category")

// YLabel is the response axis label.
const YLabel = "Incidence of Parkinson's Disease (percentage %)"

// Title returns the plot title for year.
func Title(year int) string {
	return fmt.Sprintf("Parkinson's Disease Prevalence in %d", year)
}

// Project derives the frame for sel from t.
func Project(t *dataset.Table, sel Selection) (*Frame, error) {
	key, ok := t.ColumnKey(sel.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, sel.Category)
	}
	cat := t.Catalog()

	groups := make([]RenderGroup, 0, len(cat.Regions)*len(cat.Sexes))
	groupIdx := make(map[GroupKey]int, cap(groups))
	for _, region := range cat.Regions {
		for _, sex := range cat.Sexes {
			k := GroupKey{Region: region, Sex: sex}
			groupIdx[k] = len(groups)
			groups = append(groups, RenderGroup{Key: k, Points: []Point{}})
		}
	}

	overlay := make([]RenderGroup, len(cat.Sexes))
	overlayIdx := make(map[string]int, len(cat.Sexes))
	for i, sex := range cat.Sexes {
		overlay[i] = RenderGroup{Key: GroupKey{Sex: sex}, Points: []Point{}}
		overlayIdx[sex] = i
	}

	for _, row := range t.YearRows(sel.Year) {
		p := Point{
			X:    row.Risk[key],
			Y:    row.Incidence,
			Size: row.MarkerSize,
			Tooltip: Tooltip{
				Location:   row.Location,
				Region:     row.Region,
				Sex:        row.Sex,
				Prevalence: row.Prevalence,
			},
		}
		if i, ok := groupIdx[GroupKey{Region: row.Region, Sex: row.Sex}]; ok {
			groups[i].Points = append(groups[i].Points, p)
		}
		if sel.Country != NoCountry && row.Location == sel.Country {
			if i, ok := overlayIdx[row.Sex]; ok {
				overlay[i].Points = append(overlay[i].Points, p)
			}
		}
	}

	return &Frame{
		Selection: sel,
		Title:     Title(sel.Year),
		XLabel:    sel.Category,
		YLabel:    YLabel,
		XRange:    AxisRange(t.Column(key)),
		YRange:    Range{Start: 0, End: 1.1 * t.MaxIncidence()},
		Groups:    groups,
		Overlay:   overlay,
	}, nil
}

// AxisRange returns the log-axis x range for a whole risk column:
// [0.15*(10^min - 1), 0.3*(10^max + 0.1)]. Computing it over every year
// keeps the axis fixed while playback advances.
func AxisRange(column []float64) Range {
	lo, hi := stats.Bounds(column)
	return Range{
		Start: 0.15 * (math.Pow(10, lo) - 1),
		End:   0.3 * (math.Pow(10, hi) + 0.1),
	}
}
