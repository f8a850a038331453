package dataset

import (
	"log/slog"
	"sort"

	"github.com/roach88/pdscatter/internal/catalog"
)

// Source names used in DataIntegrityError.
const (
	SourceExposure = "exposure"
	SourceDirect   = "direct"
	SourceMeasures = "measures"
	SourceRegions  = "regions"
	SourceTable    = "table"
)

// Measure column names in the unified relation.
const (
	ColumnPrevalence = "prevalence"
	ColumnIncidence  = "incidence"
)

// Option configures Unify.
type Option func(*unifier)

// WithCatalog overrides the embedded risk catalogue.
func WithCatalog(c *catalog.Catalog) Option {
	return func(u *unifier) {
		u.catalog = c
	}
}

// WithLogger sets the logger used for unification progress.
func WithLogger(l *slog.Logger) Option {
	return func(u *unifier) {
		u.logger = l
	}
}

type unifier struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// MarkerSize maps a prevalence to a marker size. It is strictly increasing
// in prevalence for any positive scale.
func MarkerSize(prevalence, scale float64) float64 {
	return scale * prevalence
}

// Unify joins the exposure, direct-cause and measure rows and the region map
// into one Table. It returns a *DataIntegrityError if any source is empty, any
// required category or measure is absent, a subset repeats a key, a region is
// not in the catalogue, or no tuple survives the joins.
func Unify(src Sources, opts ...Option) (*Table, error) {
	u := &unifier{
		catalog: catalog.Default(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u.unify(src)
}

func (u *unifier) unify(src Sources) (*Table, error) {
	if err := checkNonEmpty(src); err != nil {
		return nil, err
	}

	// One single-column relation per risk category.
	rels := make([]Relation, 0, len(u.catalog.Categories))
	for _, cat := range u.catalog.Categories {
		rows, source := src.Exposure, SourceExposure
		if cat.Source == catalog.SourceDirect {
			rows, source = src.DirectCause, SourceDirect
		}
		rel, err := riskSubset(rows, source, cat.Label, cat.Key)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	risk := JoinAll(rels...)

	prevalence, err := measureSubset(src.Measures, u.catalog.Measures.Prevalence, ColumnPrevalence)
	if err != nil {
		return nil, err
	}
	incidence, err := measureSubset(src.Measures, u.catalog.Measures.Incidence, ColumnIncidence)
	if err != nil {
		return nil, err
	}
	joined := JoinAll(risk, prevalence, incidence)

	// Only locations that survive the join need a catalogue region.
	present := make(RegionMap)
	for k := range joined {
		if region, ok := src.Regions[k.Location]; ok {
			present[k.Location] = region
		}
	}
	for _, loc := range sortedLocations(present) {
		if region := present[loc]; !u.catalog.HasRegion(region) {
			return nil, &DataIntegrityError{
				Code:     ErrCodeUnknownRegion,
				Message:  "region " + region + " is not a catalogue region",
				Source:   SourceRegions,
				Category: loc,
			}
		}
	}

	rows := make([]UnifiedRow, 0, len(joined))
	for k, cols := range joined {
		region, ok := src.Regions[k.Location]
		if !ok {
			continue
		}
		row := UnifiedRow{
			Location:   k.Location,
			Sex:        k.Sex,
			Year:       k.Year,
			Region:     region,
			Risk:       make(map[string]float64, len(u.catalog.Categories)),
			Prevalence: cols[ColumnPrevalence],
			Incidence:  cols[ColumnIncidence],
		}
		for _, cat := range u.catalog.Categories {
			row.Risk[cat.Key] = cols[cat.Key]
		}
		row.MarkerSize = MarkerSize(row.Prevalence, u.catalog.ScaleFactor)
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &DataIntegrityError{
			Code:    ErrCodeEmptyResult,
			Message: "no (location, sex, year) tuple is present in every source",
		}
	}

	u.logger.Info("dataset unified",
		"risk_tuples", len(risk),
		"measured_tuples", len(joined),
		"rows", len(rows),
	)

	return NewTable(rows, u.catalog)
}

func sortedLocations(m RegionMap) []string {
	locs := make([]string, 0, len(m))
	for loc := range m {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	return locs
}

func checkNonEmpty(src Sources) error {
	empty := func(source string) error {
		return &DataIntegrityError{
			Code:    ErrCodeEmptySource,
			Message: "source has no rows",
			Source:  source,
		}
	}
	switch {
	case len(src.Exposure) == 0:
		return empty(SourceExposure)
	case len(src.DirectCause) == 0:
		return empty(SourceDirect)
	case len(src.Measures) == 0:
		return empty(SourceMeasures)
	case len(src.Regions) == 0:
		return empty(SourceRegions)
	}
	return nil
}
