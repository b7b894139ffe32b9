package cli

import (
	"context"
	"fmt"

	"github.com/rcski77/aes-results-scraping/internal/config"
	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/output"
	"github.com/rcski77/aes-results-scraping/internal/pipeline"
)

// writePivotOutputs writes the wide, unfiltered, long and SQLite outputs of a
// pivot run and returns the paths written
func writePivotOutputs(ctx context.Context, dir *output.Dir, cfg config.Output, runID string, result *pipeline.Result) ([]string, error) {
	opts := output.WideOptions{Header: cfg.Header, IncludeKey: cfg.IncludeKey}
	var files []string

	primary := result.Unfiltered
	if result.Filtered != nil {
		primary = result.Filtered
	}
	path, err := dir.WriteWide(cfg.WideFile, primary, opts)
	if err != nil {
		return files, fmt.Errorf("writing wide table: %w", err)
	}
	files = append(files, path)
	logger.Info("Wrote wide table", logger.Fields{"path": path, "rows": len(primary.Rows)})

	if result.Filtered != nil && cfg.UnfilteredFile != "" {
		path, err := dir.WriteWide(cfg.UnfilteredFile, result.Unfiltered, opts)
		if err != nil {
			return files, fmt.Errorf("writing unfiltered table: %w", err)
		}
		files = append(files, path)
		logger.Info("Wrote unfiltered table", logger.Fields{"path": path, "rows": len(result.Unfiltered.Rows)})
	}

	records := result.Aggregator.Records()
	path, err = dir.WriteLong(cfg.LongFile, records)
	if err != nil {
		return files, fmt.Errorf("writing long table: %w", err)
	}
	files = append(files, path)
	logger.Info("Wrote long table", logger.Fields{"path": path, "rows": len(records)})

	if cfg.SQLite != "" {
		path := dir.Path(cfg.SQLite)
		sink, err := output.OpenSQLite(ctx, path)
		if err != nil {
			return files, err
		}
		defer sink.Close()

		if err := sink.WriteRun(ctx, runID, records, result.Unfiltered); err != nil {
			return files, err
		}
		files = append(files, path)
		logger.Info("Stored run in SQLite", logger.Fields{"path": path})
	}

	return files, nil
}
