package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pdscatter/internal/projection"
)

// ProjectOptions holds flags for the project command.
type ProjectOptions struct {
	*RootOptions
	Database string
	selectionFlags
}

// frameText renders a frame as a short human-readable listing.
type frameText struct {
	*projection.Frame
}

func (f frameText) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", f.Title)
	fmt.Fprintf(&b, "x: %s [%.4g, %.4g]\n", f.XLabel, f.XRange.Start, f.XRange.End)
	fmt.Fprintf(&b, "y: %s [%.4g, %.4g]\n", f.YLabel, f.YRange.Start, f.YRange.End)
	for _, g := range f.Groups {
		if len(g.Points) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s / %s: %d points\n", g.Key.Region, g.Key.Sex, len(g.Points))
	}
	if f.Selection.Country != projection.NoCountry {
		fmt.Fprintf(&b, "%s: %d points highlighted\n", f.Selection.Country, f.OverlayCount())
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewProjectCommand creates the project command.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProjectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Compute the scatter frame for one selection",
		Long: `Project the unified table for a year, an optional highlighted country and
a risk category, and print the resulting frame.

Exit codes:
  0 - Frame printed
  2 - Selection outside the table, database error

Examples:
  pdscatter project --year 2005 --country Japan
  pdscatter project --year 1990 --category Smoking --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PDSCATTER_DB)")
	opts.selectionFlags.register(cmd)

	return cmd
}

func runProject(opts *ProjectOptions, cmd *cobra.Command) error {
	frame, err := projectFrame(opts.RootOptions, cmd, opts.Database, opts.selectionFlags)
	if err != nil {
		return err
	}
	if opts.Format == "json" {
		return opts.formatter(cmd).Success(frame)
	}
	return opts.formatter(cmd).Success(frameText{frame})
}

// projectFrame loads the table and projects the selection described by flags.
func projectFrame(opts *RootOptions, cmd *cobra.Command, db string, flags selectionFlags) (*projection.Frame, error) {
	ctx := cmd.Context()
	st, tab, err := opts.openTable(ctx, cmd, orDefault(db, opts.Config.DBPath))
	if err != nil {
		return nil, err
	}
	defer st.Close()

	sel, err := flags.selection(projection.NewControls(tab))
	if err != nil {
		return nil, opts.fail(cmd, ExitCommandError, CodeBadInput, "invalid selection", err)
	}
	frame, err := projection.Project(tab, sel)
	if err != nil {
		return nil, opts.fail(cmd, ExitCommandError, CodeBadInput, "projection failed", err)
	}
	opts.Logger.Debug("frame projected", "selection", sel.String(), "points", frame.PointCount())
	return frame, nil
}
