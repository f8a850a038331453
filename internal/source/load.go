package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/pdscatter/internal/dataset"
)

// Default export file names.
const (
	FileAllRisks    = "IHME-GBD_2017_DATA-All-Risks.csv"
	FileDirectCause = "IHME-GBD_2017_DATA-direct_cause_PD.csv"
	FileMeasures    = "IHME-GBD_2017_DATA-PD_Incidence_prevalence.csv"
	FileRegions     = "region.csv"
)

// Files names the four inputs.
type Files struct {
	Exposure    string
	DirectCause string
	Measures    string
	Regions     string
}

// DefaultFiles returns the standard export names inside dir.
func DefaultFiles(dir string) Files {
	return Files{
		Exposure:    filepath.Join(dir, FileAllRisks),
		DirectCause: filepath.Join(dir, FileDirectCause),
		Measures:    filepath.Join(dir, FileMeasures),
		Regions:     filepath.Join(dir, FileRegions),
	}
}

// Load reads the four files concurrently. The first failure cancels the
// remaining reads.
func Load(ctx context.Context, files Files, logger *slog.Logger) (dataset.Sources, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var src dataset.Sources
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := readFile(ctx, files.Exposure, ReadRisks)
		src.Exposure = rows
		return err
	})
	g.Go(func() error {
		rows, err := readFile(ctx, files.DirectCause, ReadRisks)
		src.DirectCause = rows
		return err
	})
	g.Go(func() error {
		rows, err := readFile(ctx, files.Measures, ReadMeasures)
		src.Measures = rows
		return err
	})
	g.Go(func() error {
		regions, err := readFile(ctx, files.Regions, ReadRegions)
		src.Regions = regions
		return err
	})

	if err := g.Wait(); err != nil {
		return dataset.Sources{}, err
	}

	logger.Info("sources loaded",
		"exposure_rows", len(src.Exposure),
		"direct_cause_rows", len(src.DirectCause),
		"measure_rows", len(src.Measures),
		"regions", len(src.Regions),
	)
	return src, nil
}

func readFile[T any](ctx context.Context, path string, read func(io.Reader, string) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	return read(f, filepath.Base(path))
}
