package cli

import (
	"fmt"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/spf13/cobra"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Database string
}

// Summary describes one numeric column.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

func summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	lo, hi := stats.Bounds(xs)
	s := Summary{Min: lo, Max: hi, Mean: stats.Mean(xs)}
	if len(xs) > 1 {
		s.StdDev = stats.StdDev(xs)
	}
	return s
}

// InspectResult describes the stored table.
type InspectResult struct {
	Database   string             `json:"database"`
	Rows       int                `json:"rows"`
	Locations  int                `json:"locations"`
	Categories []string           `json:"categories"`
	Regions    []string           `json:"regions"`
	YearMin    int                `json:"year_min"`
	YearMax    int                `json:"year_max"`
	Incidence  Summary            `json:"incidence"`
	Prevalence Summary            `json:"prevalence"`
	Risks      map[string]Summary `json:"risks"`
}

func (r InspectResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Database:   %s\n", r.Database)
	fmt.Fprintf(&b, "Rows:       %d (%d locations, %d-%d)\n", r.Rows, r.Locations, r.YearMin, r.YearMax)
	fmt.Fprintf(&b, "Regions:    %s\n", strings.Join(r.Regions, ", "))
	fmt.Fprintf(&b, "Incidence:  %s\n", r.Incidence)
	fmt.Fprintf(&b, "Prevalence: %s\n", r.Prevalence)
	b.WriteString("Risks:\n")
	for _, label := range r.Categories {
		fmt.Fprintf(&b, "  %-40s %s\n", label, r.Risks[label])
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s Summary) String() string {
	return fmt.Sprintf("min=%.4g max=%.4g mean=%.4g sd=%.4g", s.Min, s.Max, s.Mean, s.StdDev)
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarise the stored unified table",
		Long: `Print row counts, the year range and per-column statistics of the
unified table.

Examples:
  pdscatter inspect --db ./pdscatter.db
  pdscatter inspect --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PDSCATTER_DB)")

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath := orDefault(opts.Database, opts.Config.DBPath)

	st, tab, err := opts.openTable(ctx, cmd, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	counts, err := st.Stats(ctx)
	if err != nil {
		return opts.fail(cmd, ExitCommandError, CodeStoreError, "failed to read stats", err)
	}

	rows := tab.Rows()
	incidence := make([]float64, len(rows))
	prevalence := make([]float64, len(rows))
	for i, row := range rows {
		incidence[i] = row.Incidence
		prevalence[i] = row.Prevalence
	}

	risks := make(map[string]Summary, len(tab.Categories()))
	for _, label := range tab.Categories() {
		key, _ := tab.ColumnKey(label)
		risks[label] = summarize(tab.Column(key))
	}

	return opts.formatter(cmd).Success(InspectResult{
		Database:   dbPath,
		Rows:       counts.Rows,
		Locations:  counts.Locations,
		Categories: tab.Categories(),
		Regions:    tab.Regions(),
		YearMin:    counts.YearMin,
		YearMax:    counts.YearMax,
		Incidence:  summarize(incidence),
		Prevalence: summarize(prevalence),
		Risks:      risks,
	})
}
