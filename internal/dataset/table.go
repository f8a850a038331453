package dataset

import (
	"fmt"
	"sort"

	"github.com/roach88/pdscatter/internal/catalog"
)

// Table is the unified wide table. It is built once and never mutated;
// accessors return copies of slices so callers cannot alias its state.
type Table struct {
	rows    []UnifiedRow
	byYear  map[int][]int
	catalog *catalog.Catalog

	categories   []string
	locations    []string
	regions      []string
	yearMin      int
	yearMax      int
	maxIncidence float64
}

// NewTable builds a Table from already unified rows. Rows are sorted by
// (location, sex, year). A repeated key or a row missing one of the
// catalogue's risk columns is a DataIntegrityError.
func NewTable(rows []UnifiedRow, cat *catalog.Catalog) (*Table, error) {
	if len(rows) == 0 {
		return nil, &DataIntegrityError{
			Code:    ErrCodeEmptyResult,
			Message: "table has no rows",
			Source:  SourceTable,
		}
	}

	sorted := make([]UnifiedRow, len(rows))
	for i, row := range rows {
		sorted[i] = row.clone()
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key().less(sorted[j].Key())
	})

	t := &Table{
		rows:    sorted,
		byYear:  make(map[int][]int),
		catalog: cat,
		yearMin: sorted[0].Year,
		yearMax: sorted[0].Year,
	}

	locations := make(map[string]bool)
	regions := make(map[string]bool)
	for i, row := range sorted {
		if i > 0 && sorted[i-1].Key() == row.Key() {
			return nil, NewDuplicateKeyError(SourceTable, "", row.Key())
		}
		for _, c := range cat.Categories {
			if _, ok := row.Risk[c.Key]; !ok {
				return nil, &DataIntegrityError{
					Code:     ErrCodeMissingCategory,
					Message:  fmt.Sprintf("row %s has no value", row.Key()),
					Source:   SourceTable,
					Category: c.Label,
				}
			}
		}

		t.byYear[row.Year] = append(t.byYear[row.Year], i)
		locations[row.Location] = true
		regions[row.Region] = true
		if row.Year < t.yearMin {
			t.yearMin = row.Year
		}
		if row.Year > t.yearMax {
			t.yearMax = row.Year
		}
		if row.Incidence > t.maxIncidence {
			t.maxIncidence = row.Incidence
		}
	}

	t.categories = cat.Labels()
	t.locations = sortedSet(locations)
	t.regions = sortedSet(regions)
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns all rows in (location, sex, year) order.
func (t *Table) Rows() []UnifiedRow {
	out := make([]UnifiedRow, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.clone()
	}
	return out
}

// YearRows returns the rows observed in year, in (location, sex) order.
func (t *Table) YearRows(year int) []UnifiedRow {
	idx := t.byYear[year]
	out := make([]UnifiedRow, len(idx))
	for i, j := range idx {
		out[i] = t.rows[j].clone()
	}
	return out
}

// Column returns every value of a risk column across the whole table.
func (t *Table) Column(key string) []float64 {
	out := make([]float64, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.Risk[key]
	}
	return out
}

// Catalog returns the catalogue the table was built with.
func (t *Table) Catalog() *catalog.Catalog {
	return t.catalog
}

// Categories returns the risk category display labels, sorted.
func (t *Table) Categories() []string {
	return append([]string(nil), t.categories...)
}

// ColumnKey maps a category display label to its column key.
func (t *Table) ColumnKey(label string) (string, bool) {
	c, ok := t.catalog.Lookup(label)
	if !ok {
		return "", false
	}
	return c.Key, true
}

// Locations returns the distinct locations, sorted.
func (t *Table) Locations() []string {
	return append([]string(nil), t.locations...)
}

// HasLocation reports whether location has at least one row.
func (t *Table) HasLocation(location string) bool {
	i := sort.SearchStrings(t.locations, location)
	return i < len(t.locations) && t.locations[i] == location
}

// Regions returns the distinct regions present in the table, sorted.
func (t *Table) Regions() []string {
	return append([]string(nil), t.regions...)
}

// YearRange returns the smallest and largest year in the table.
func (t *Table) YearRange() (min, max int) {
	return t.yearMin, t.yearMax
}

// MaxIncidence returns the largest incidence in the table.
func (t *Table) MaxIncidence() float64 {
	return t.maxIncidence
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].less(keys[j])
	})
}
