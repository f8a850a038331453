package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pdscatter/internal/animation"
	"github.com/roach88/pdscatter/internal/harness"
	"github.com/roach88/pdscatter/internal/render"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Database string
	SVGDir   string
	Record   bool
	Trace    bool
}

// PlayResult reports a script run.
type PlayResult struct {
	Script    string               `json:"script"`
	SessionID string               `json:"session_id,omitempty"`
	Pass      bool                 `json:"pass"`
	Frames    int                  `json:"frames"`
	Errors    []string             `json:"errors,omitempty"`
	Trace     []harness.TraceEvent `json:"trace,omitempty"`
}

func (r PlayResult) String() string {
	var b strings.Builder
	status := "PASS"
	if !r.Pass {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "%s %s (%d frames)", status, r.Script, r.Frames)
	if r.SessionID != "" {
		fmt.Fprintf(&b, "\nrecorded as session %s", r.SessionID)
	}
	for _, ev := range r.Trace {
		fmt.Fprintf(&b, "\n  %2d %-32s seq=%d %s year=%d country=%s points=%d overlay=%d",
			ev.Step, ev.Event, ev.Seq, ev.Mode, ev.Year, ev.Country, ev.Points, ev.Overlay)
		if ev.Error != "" {
			fmt.Fprintf(&b, " error=%q", ev.Error)
		}
	}
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "\n  %s", e)
	}
	return b.String()
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <script.yaml>",
		Short: "Replay a scripted session against the stored table",
		Long: `Run a YAML session script (year changes, selections, play/pause toggles and
timer ticks) against the stored table and check its assertions.

Exit codes:
  0 - All assertions held
  1 - An assertion failed
  2 - Command error (bad script, database not found, etc.)

Examples:
  pdscatter play --db ./pdscatter.db scripts/playback.yaml
  pdscatter play --svg-dir ./frames --record scripts/playback.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PDSCATTER_DB)")
	cmd.Flags().StringVar(&opts.SVGDir, "svg-dir", "", "write every rendered frame as SVG into this directory")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the session's frames in the database")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "include the step trace in the output")

	return cmd
}

func runPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	script, err := harness.LoadScript(path)
	if err != nil {
		return opts.fail(cmd, ExitCommandError, CodeBadInput, "failed to load script", err)
	}

	st, tab, err := opts.openTable(ctx, cmd, orDefault(opts.Database, opts.Config.DBPath))
	if err != nil {
		return err
	}
	defer st.Close()

	runOpts := []harness.Option{harness.WithLogger(opts.Logger)}
	if opts.SVGDir != "" {
		if err := os.MkdirAll(opts.SVGDir, 0o755); err != nil {
			return opts.fail(cmd, ExitCommandError, CodeBadInput, "failed to create svg dir", err)
		}
		runOpts = append(runOpts, harness.WithRenderer(render.NewSVGRenderer(opts.SVGDir)))
	}

	var sessionID string
	if opts.Record {
		sessionID = animation.UUIDv7Generator{}.Generate()
		if err := st.CreateSession(ctx, sessionID, script.Name); err != nil {
			return opts.fail(cmd, ExitCommandError, CodeStoreError, "failed to create session", err)
		}
		runOpts = append(runOpts, harness.WithSessionID(sessionID), harness.WithRecorder(st))
	}

	opts.Logger.Info("playing script", "script", script.Name, "steps", len(script.Steps))
	result, err := harness.Run(ctx, tab, script, runOpts...)
	if err != nil {
		return opts.fail(cmd, ExitCommandError, CodeBadInput, "script aborted", err)
	}

	out := PlayResult{
		Script:    script.Name,
		SessionID: sessionID,
		Pass:      result.Pass,
		Frames:    result.Frames,
		Errors:    result.Errors,
	}
	if opts.Trace {
		out.Trace = result.Trace
	}
	if err := opts.formatter(cmd).SuccessFor(sessionID, out); err != nil {
		return err
	}
	if !result.Pass {
		return &ExitError{
			Code:    ExitFailure,
			Kind:    CodeScriptFailed,
			Message: fmt.Sprintf("script %s: %d assertion(s) failed", script.Name, len(result.Errors)),
		}
	}
	return nil
}
