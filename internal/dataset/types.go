package dataset

import "fmt"

// Key identifies one observation in every source and in the unified table.
type Key struct {
	Location string
	Sex      string
	Year     int
}

func (k Key) String() string {
	return fmt.Sprintf("(%s, %s, %d)", k.Location, k.Sex, k.Year)
}

// less orders keys by location, then sex, then year.
func (k Key) less(o Key) bool {
	if k.Location != o.Location {
		return k.Location < o.Location
	}
	if k.Sex != o.Sex {
		return k.Sex < o.Sex
	}
	return k.Year < o.Year
}

// RiskRow is one long-format exposure observation. Category is the display
// label of the risk (rei_name in the exports).
type RiskRow struct {
	Location string
	Sex      string
	Year     int
	Category string
	Value    float64
}

// Key returns the join key of the row.
func (r RiskRow) Key() Key {
	return Key{Location: r.Location, Sex: r.Sex, Year: r.Year}
}

// MeasureRow is one long-format disease-measure observation.
type MeasureRow struct {
	Location  string
	Sex       string
	Year      int
	MeasureID int
	Value     float64
}

// Key returns the join key of the row.
func (r MeasureRow) Key() Key {
	return Key{Location: r.Location, Sex: r.Sex, Year: r.Year}
}

// RegionMap maps a location to its region group.
type RegionMap map[string]string

// Sources is everything the unification needs from the source loader.
type Sources struct {
	Exposure    []RiskRow
	DirectCause []RiskRow
	Measures    []MeasureRow
	Regions     RegionMap
}

// UnifiedRow is one fully observed (location, sex, year) tuple.
// Risk is keyed by the catalogue column key (e.g. "sugar", "bmi").
type UnifiedRow struct {
	Location   string
	Sex        string
	Year       int
	Region     string
	Risk       map[string]float64
	Prevalence float64
	Incidence  float64
	MarkerSize float64
}

// Key returns the unique key of the row.
func (r UnifiedRow) Key() Key {
	return Key{Location: r.Location, Sex: r.Sex, Year: r.Year}
}

func (r UnifiedRow) clone() UnifiedRow {
	risk := make(map[string]float64, len(r.Risk))
	for k, v := range r.Risk {
		risk[k] = v
	}
	r.Risk = risk
	return r
}
