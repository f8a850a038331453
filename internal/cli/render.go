package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pdscatter/internal/render"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Database string
	Output   string
	Width    int
	Height   int
	selectionFlags
}

// RenderResult describes a written SVG.
type RenderResult struct {
	Output string `json:"output"`
	Title  string `json:"title"`
	Points int    `json:"points"`
}

func (r RenderResult) String() string {
	return fmt.Sprintf("Wrote %s (%s, %d points)", r.Output, r.Title, r.Points)
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the scatter frame for one selection as SVG",
		Long: `Project one selection and draw it as an SVG scatter plot: risk exposure on
x, incidence on y, marker area from prevalence, one colour per region and sex.

Examples:
  pdscatter render --year 2005 --country Japan -o japan-2005.svg
  pdscatter render --category Smoking --width 1200 --height 600 -o smoking.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PDSCATTER_DB)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output SVG file (required)")
	cmd.Flags().IntVar(&opts.Width, "width", render.DefaultWidth, "image width")
	cmd.Flags().IntVar(&opts.Height, "height", render.DefaultHeight, "image height")
	_ = cmd.MarkFlagRequired("output")
	opts.selectionFlags.register(cmd)

	return cmd
}

func runRender(opts *RenderOptions, cmd *cobra.Command) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return opts.fail(cmd, ExitCommandError, CodeBadInput, "invalid size",
			fmt.Errorf("%dx%d", opts.Width, opts.Height))
	}

	frame, err := projectFrame(opts.RootOptions, cmd, opts.Database, opts.selectionFlags)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return opts.fail(cmd, ExitCommandError, CodeBadInput, "failed to create output", err)
	}
	if err := render.WriteSVG(f, frame, opts.Width, opts.Height); err != nil {
		f.Close()
		os.Remove(opts.Output)
		return opts.fail(cmd, ExitFailure, CodeBadInput, "failed to render frame", err)
	}
	if err := f.Close(); err != nil {
		return opts.fail(cmd, ExitCommandError, CodeBadInput, "failed to write output", err)
	}

	return opts.formatter(cmd).Success(RenderResult{
		Output: opts.Output,
		Title:  frame.Title,
		Points: frame.PointCount(),
	})
}
