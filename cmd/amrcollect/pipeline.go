package main

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/maldi-lab/amrcollect/internal/discovery"
	"github.com/maldi-lab/amrcollect/internal/projectconfig"
	"github.com/maldi-lab/amrcollect/internal/results"
)

// loadOptions carries the flags shared by every command that reads a batch
// of result files.
type loadOptions struct {
	exclude  string
	parallel bool
	workers  int
}

// resolveFiles applies config defaults to the flags and turns path arguments
// into the sorted file list.
func resolveFiles(args []string, cfg *projectconfig.ProjectConfig, opts *loadOptions, excludeSet bool) ([]string, error) {
	if !excludeSet && opts.exclude == "" {
		opts.exclude = cfg.Collect.Exclude
	}
	if opts.workers <= 0 {
		opts.workers = cfg.Collect.Workers
	}
	if !opts.parallel && cfg.Collect.Parallel != nil {
		opts.parallel = *cfg.Collect.Parallel
	}

	return discovery.Resolve(args, discovery.Options{
		Extension: cfg.Collect.Extension,
		Exclude:   opts.exclude,
	})
}

// loadRows reads every file and builds its rows. Files are independent, so
// the parallel path maps them concurrently and flattens in file order; the
// aggregation downstream only starts once all rows are materialised.
func loadRows(files []string, opts loadOptions) ([]results.Row, error) {
	perFile := make([][]results.Row, len(files))

	if opts.parallel {
		var eg errgroup.Group
		eg.SetLimit(opts.workers)
		for i, path := range files {
			eg.Go(func() error {
				rows, err := loadFileRows(path)
				if err != nil {
					return err
				}
				perFile[i] = rows
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, path := range files {
			rows, err := loadFileRows(path)
			if err != nil {
				return nil, err
			}
			perFile[i] = rows
		}
	}

	var all []results.Row
	for _, rows := range perFile {
		all = append(all, rows...)
	}
	return all, nil
}

// loadFileRows handles one file. Empty files are a recognised degenerate
// input (a run that crashed before writing) and are skipped; every other
// failure aborts the batch.
func loadFileRows(path string) ([]results.Row, error) {
	rec, err := results.Load(path)
	if errors.Is(err, results.ErrEmptyFile) {
		slog.Debug("skipping empty result file", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := results.BuildRows(path, rec)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		slog.Debug("result file has no recognised metrics", "path", path)
	}
	return rows, nil
}

func validateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q", format)
}
