package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/pdscatter/internal/catalog"
	"github.com/roach88/pdscatter/internal/dataset"
)

// Observation describes one fully observed (location, sex, year) tuple.
// Sources expands it into the long-format rows every source would carry.
type Observation struct {
	Location string
	Sex      string
	Year     int
	Region   string

	// Exposure is the value used for every risk column not set in Risk.
	Exposure float64

	// Risk overrides individual risk columns by column key (e.g. "smoking").
	Risk map[string]float64

	Prevalence float64
	Incidence  float64
}

// Sources expands observations into long-format source rows using the
// embedded catalogue. An observation with an empty Region adds no region entry.
func Sources(obs ...Observation) dataset.Sources {
	cat := catalog.Default()
	src := dataset.Sources{Regions: dataset.RegionMap{}}
	for _, o := range obs {
		for _, c := range cat.Categories {
			v := o.Exposure
			if r, ok := o.Risk[c.Key]; ok {
				v = r
			}
			row := dataset.RiskRow{
				Location: o.Location,
				Sex:      o.Sex,
				Year:     o.Year,
				Category: c.Label,
				Value:    v,
			}
			if c.Source == catalog.SourceDirect {
				src.DirectCause = append(src.DirectCause, row)
			} else {
				src.Exposure = append(src.Exposure, row)
			}
		}
		src.Measures = append(src.Measures,
			dataset.MeasureRow{Location: o.Location, Sex: o.Sex, Year: o.Year, MeasureID: cat.Measures.Prevalence, Value: o.Prevalence},
			dataset.MeasureRow{Location: o.Location, Sex: o.Sex, Year: o.Year, MeasureID: cat.Measures.Incidence, Value: o.Incidence},
		)
		if o.Region != "" {
			src.Regions[o.Location] = o.Region
		}
	}
	return src
}

// Table unifies observations into a Table, failing the test on error.
func Table(t testing.TB, obs ...Observation) *dataset.Table {
	t.Helper()
	tab, err := dataset.Unify(Sources(obs...), dataset.WithLogger(DiscardLogger()))
	if err != nil {
		t.Fatalf("Unify() failed: %v", err)
	}
	return tab
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
