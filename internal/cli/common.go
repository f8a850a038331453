package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/pdscatter/internal/catalog"
	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/projection"
	"github.com/roach88/pdscatter/internal/store"
)

// openTable opens the database and loads the unified table from it.
// The caller closes the returned store.
func (o *RootOptions) openTable(ctx context.Context, cmd *cobra.Command, dbPath string) (*store.Store, *dataset.Table, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, o.fail(cmd, ExitCommandError, CodeStoreError, "failed to open database", err)
	}
	tab, err := st.LoadTable(ctx, catalog.Default())
	if err != nil {
		st.Close()
		if errors.Is(err, store.ErrNoTable) {
			return nil, nil, o.fail(cmd, ExitCommandError, CodeStoreError, dbPath, err)
		}
		return nil, nil, o.fail(cmd, ExitCommandError, CodeStoreError, "failed to load table", err)
	}
	o.Logger.Debug("table loaded", "db", dbPath, "rows", tab.Len())
	return st, tab, nil
}

// selectionFlags are the selector flags shared by project and render.
type selectionFlags struct {
	Year     int
	Country  string
	Category string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.Year, "year", 0, "year to show (default: first year)")
	cmd.Flags().StringVar(&f.Country, "country", projection.NoCountry, "country to highlight")
	cmd.Flags().StringVar(&f.Category, "category", "", "risk category on the x axis (default: catalogue default)")
}

// selection fills unset flags from the controls' defaults and validates
// the result.
func (f selectionFlags) selection(c projection.Controls) (projection.Selection, error) {
	sel := c.Default()
	if f.Year != 0 {
		sel.Year = f.Year
	}
	if f.Country != "" {
		sel.Country = f.Country
	}
	if f.Category != "" {
		sel.Category = f.Category
	}
	return sel, c.Validate(sel)
}
