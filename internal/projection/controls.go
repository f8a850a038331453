package projection

import (
	"fmt"
	"sort"

	"github.com/roach88/pdscatter/internal/dataset"
)

// Controls describes the user-facing selectors derived from a table.
type Controls struct {
	YearMin         int      `json:"year_min"`
	YearMax         int      `json:"year_max"`
	Countries       []string `json:"countries"`
	Categories      []string `json:"categories"`
	DefaultCategory string   `json:"default_category"`
}

// SelectionError reports a selection outside the controls' domain.
type SelectionError struct {
	Field   string
	Message string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid selection: %s: %s", e.Field, e.Message)
}

// NewControls builds the year scrubber bounds, the country selector
// ("None Selected" followed by sorted locations) and the category selector.
func NewControls(t *dataset.Table) Controls {
	min, max := t.YearRange()
	countries := append([]string{NoCountry}, t.Locations()...)
	return Controls{
		YearMin:         min,
		YearMax:         max,
		Countries:       countries,
		Categories:      t.Categories(),
		DefaultCategory: t.Catalog().DefaultCategory,
	}
}

// WithYears overrides the scrubber bounds.
func (c Controls) WithYears(min, max int) Controls {
	c.YearMin, c.YearMax = min, max
	return c
}

// Default returns the initial selection: first year, no country, default category.
func (c Controls) Default() Selection {
	return Selection{
		Year:     c.YearMin,
		Country:  NoCountry,
		Category: c.DefaultCategory,
	}
}

// Validate checks that sel lies inside the selectors' domains.
func (c Controls) Validate(sel Selection) error {
	if sel.Year < c.YearMin || sel.Year > c.YearMax {
		return &SelectionError{Field: "year", Message: fmt.Sprintf("%d outside [%d, %d]", sel.Year, c.YearMin, c.YearMax)}
	}
	if sel.Country != NoCountry && !contains(c.Countries[1:], sel.Country) {
		return &SelectionError{Field: "country", Message: fmt.Sprintf("unknown country %q", sel.Country)}
	}
	if !contains(c.Categories, sel.Category) {
		return &SelectionError{Field: "category", Message: fmt.Sprintf("unknown category %q", sel.Category)}
	}
	return nil
}

// contains searches a sorted slice.
func contains(sorted []string, s string) bool {
	i := sort.SearchStrings(sorted, s)
	return i < len(sorted) && sorted[i] == s
}
