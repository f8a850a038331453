package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/pdscatter/internal/animation"
	"github.com/roach88/pdscatter/internal/dataset"
	"github.com/roach88/pdscatter/internal/metrics"
	"github.com/roach88/pdscatter/internal/projection"
	"github.com/roach88/pdscatter/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Database string
	Addr     string
	Interval time.Duration
	Record   bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one interactive session over HTTP",
		Long: `Start a playback session over the stored table and expose it as a JSON API.

Endpoints:
  GET  /api/controls   year bounds, countries and categories
  GET  /api/frame      the latest rendered frame
  POST /api/selection  {"year": 1995, "country": "Japan", "category": "Smoking"}
  POST /api/toggle     play or pause
  GET  /metrics        Prometheus metrics
  GET  /healthz        liveness

Examples:
  pdscatter serve --db ./pdscatter.db --addr 127.0.0.1:8080
  pdscatter serve --interval 250ms --record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $PDSCATTER_DB)")
	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default $PDSCATTER_ADDR)")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "playback period (default $PDSCATTER_TICK_INTERVAL)")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record every rendered frame in the database")

	return cmd
}

// scrubberControls narrows the table's year range to the configured bounds.
func scrubberControls(tab *dataset.Table, yearMin, yearMax int) (projection.Controls, error) {
	c := projection.NewControls(tab)
	lo, hi := max(c.YearMin, yearMin), min(c.YearMax, yearMax)
	if lo > hi {
		return c, fmt.Errorf("table years [%d, %d] do not overlap configured [%d, %d]",
			c.YearMin, c.YearMax, yearMin, yearMax)
	}
	return c.WithYears(lo, hi), nil
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := orDefault(opts.Addr, opts.Config.Addr)
	interval := opts.Interval
	if interval <= 0 {
		interval = opts.Config.TickInterval
	}

	st, tab, err := opts.openTable(ctx, cmd, orDefault(opts.Database, opts.Config.DBPath))
	if err != nil {
		return err
	}
	defer st.Close()

	controls, err := scrubberControls(tab, opts.Config.YearMin, opts.Config.YearMax)
	if err != nil {
		return opts.fail(cmd, ExitCommandError, CodeBadInput, "invalid year bounds", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SetUnifiedRows(tab.Len())

	sessionOpts := []animation.Option{
		animation.WithControls(controls),
		animation.WithInterval(interval),
		animation.WithMetrics(m),
		animation.WithLogger(opts.Logger),
	}
	if opts.Record {
		sessionOpts = append(sessionOpts, animation.WithRecorder(st))
	}
	session, err := animation.NewSession(tab, sessionOpts...)
	if err != nil {
		return opts.fail(cmd, ExitCommandError, CodeBadInput, "failed to create session", err)
	}
	if opts.Record {
		if err := st.CreateSession(ctx, session.ID(), "serve"); err != nil {
			return opts.fail(cmd, ExitCommandError, CodeStoreError, "failed to create session", err)
		}
	}
	if err := session.Refresh(ctx); err != nil {
		return opts.fail(cmd, ExitFailure, CodeStoreError, "failed to draw initial frame", err)
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return opts.fail(cmd, ExitCommandError, CodeBadInput, "failed to listen", err)
	}
	srv := server.NewHTTPServer(addr, server.NewRouter(server.New(session, opts.Logger), reg))

	opts.Logger.Info("serving", "addr", ln.Addr().String(), "session", session.ID(), "interval", interval)
	opts.formatter(cmd).VerboseLog("Listening on http://%s", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := session.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.Config.ShutdownTimeout)
		defer cancel()
		session.Stop()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return opts.fail(cmd, ExitFailure, CodeStoreError, "server error", err)
	}
	opts.Logger.Info("server stopped gracefully")
	return nil
}
