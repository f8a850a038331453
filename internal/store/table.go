package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/pdscatter/internal/catalog"
	"github.com/roach88/pdscatter/internal/dataset"
)

// ErrNoTable is returned by LoadTable when no unified table has been saved.
var ErrNoTable = errors.New("no unified table stored; run `pdscatter unify` first")

// SaveTable replaces the stored unified table with t in one transaction.
func (s *Store) SaveTable(ctx context.Context, t *dataset.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save table: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, stmt := range []string{
		"DELETE FROM unified_risks",
		"DELETE FROM unified_rows",
		"DELETE FROM categories",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("save table: clear: %w", err)
		}
	}

	cats := t.Catalog().Categories
	for i, c := range cats {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (key, label, source, position)
			VALUES (?, ?, ?, ?)
		`, c.Key, c.Label, string(c.Source), i)
		if err != nil {
			return fmt.Errorf("save table: category %q: %w", c.Key, err)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unified_rows
		(location, sex, year, region, prevalence, incidence, marker_size)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save table: prepare rows: %w", err)
	}
	defer rowStmt.Close()

	riskStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO unified_risks
		(location, sex, year, category_key, value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("save table: prepare risks: %w", err)
	}
	defer riskStmt.Close()

	for _, row := range t.Rows() {
		if _, err := rowStmt.ExecContext(ctx,
			row.Location, row.Sex, row.Year, row.Region,
			row.Prevalence, row.Incidence, row.MarkerSize,
		); err != nil {
			return fmt.Errorf("save table: row %s: %w", row.Key(), err)
		}
		for _, c := range cats {
			if _, err := riskStmt.ExecContext(ctx,
				row.Location, row.Sex, row.Year, c.Key, row.Risk[c.Key],
			); err != nil {
				return fmt.Errorf("save table: row %s %s: %w", row.Key(), c.Key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save table: commit: %w", err)
	}
	return nil
}

// LoadTable reads the stored unified table. Category labels, keys and order
// come from the store; measures, regions and the remaining settings come
// from base (catalog.Default() when nil). The merged catalogue must pass
// catalog validation.
//
// Returns ErrNoTable if nothing has been saved.
func (s *Store) LoadTable(ctx context.Context, base *catalog.Catalog) (*dataset.Table, error) {
	if base == nil {
		base = catalog.Default()
	}

	cats, err := s.readCategories(ctx)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, ErrNoTable
	}

	rows, index, err := s.readUnifiedRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoTable
	}

	if err := s.readRisks(ctx, rows, index); err != nil {
		return nil, err
	}

	cat := base.WithCategories(cats)
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("load table: stored categories: %w", err)
	}

	t, err := dataset.NewTable(rows, cat)
	if err != nil {
		return nil, fmt.Errorf("load table: %w", err)
	}
	return t, nil
}

// TableStats summarises the stored table without loading it.
type TableStats struct {
	Rows       int
	Categories int
	Locations  int
	YearMin    int
	YearMax    int
}

// Stats returns counts over the stored table. All fields are zero when
// nothing has been saved.
func (s *Store) Stats(ctx context.Context) (TableStats, error) {
	var st TableStats
	var yearMin, yearMax sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT location), MIN(year), MAX(year)
		FROM unified_rows
	`).Scan(&st.Rows, &st.Locations, &yearMin, &yearMax)
	if err != nil {
		return st, fmt.Errorf("stats: rows: %w", err)
	}
	st.YearMin = int(yearMin.Int64)
	st.YearMax = int(yearMax.Int64)

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&st.Categories); err != nil {
		return st, fmt.Errorf("stats: categories: %w", err)
	}
	return st, nil
}

func (s *Store) readCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, label, source
		FROM categories
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []catalog.Category
	for rows.Next() {
		var c catalog.Category
		var source string
		if err := rows.Scan(&c.Key, &c.Label, &source); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Source = catalog.Source(source)
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

func (s *Store) readUnifiedRows(ctx context.Context) ([]dataset.UnifiedRow, map[dataset.Key]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT location, sex, year, region, prevalence, incidence, marker_size
		FROM unified_rows
		ORDER BY location COLLATE BINARY ASC, sex COLLATE BINARY ASC, year ASC
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("query unified rows: %w", err)
	}
	defer rows.Close()

	var out []dataset.UnifiedRow
	index := make(map[dataset.Key]int)
	for rows.Next() {
		var r dataset.UnifiedRow
		if err := rows.Scan(&r.Location, &r.Sex, &r.Year, &r.Region, &r.Prevalence, &r.Incidence, &r.MarkerSize); err != nil {
			return nil, nil, fmt.Errorf("scan unified row: %w", err)
		}
		r.Risk = make(map[string]float64)
		index[r.Key()] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate unified rows: %w", err)
	}
	return out, index, nil
}

func (s *Store) readRisks(ctx context.Context, out []dataset.UnifiedRow, index map[dataset.Key]int) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT location, sex, year, category_key, value
		FROM unified_risks
	`)
	if err != nil {
		return fmt.Errorf("query risks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k dataset.Key
		var key string
		var v float64
		if err := rows.Scan(&k.Location, &k.Sex, &k.Year, &key, &v); err != nil {
			return fmt.Errorf("scan risk: %w", err)
		}
		i, ok := index[k]
		if !ok {
			return fmt.Errorf("risk value for unknown row %s", k)
		}
		out[i].Risk[key] = v
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate risks: %w", err)
	}
	return nil
}
