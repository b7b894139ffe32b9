package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcski77/aes-results-scraping/internal/config"
	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/output"
	"github.com/rcski77/aes-results-scraping/internal/pipeline"
)

var flagMaxRows int

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write club rankings import files for each event",
		Long: `Fetch every configured event and write its standings as headerless
club rankings import files (division, finish, team name, team code).

Files are named {date}_{event}_{id}_standings.csv. Events with more rows than
--max-rows are split into numbered parts at division boundaries.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().IntVar(&flagMaxRows, "max-rows", output.DefaultMaxRows, "Maximum rows per import file")
	cmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Directory for output files (overrides output.dir)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	if flagOutputDir != "" {
		cfg.Output.Dir = flagOutputDir
	}
	if len(cfg.Events) == 0 {
		return fmt.Errorf("%w: no events configured", config.ErrInvalidConfig)
	}
	if flagMaxRows < 1 {
		return fmt.Errorf("--max-rows must be at least 1")
	}

	dir, err := output.NewDir(cfg.Output.Dir)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	adapters, release := buildAdapters(ctx, cfg)
	defer release()

	p := pipeline.New(adapters, cfg.Fetch.Workers)
	outcomes := p.Fetch(ctx, pipeline.JobsFromConfig(cfg.Events))
	report := newRunReport(rt.runID, "export", outcomes)

	for _, out := range outcomes {
		if out.Err != nil {
			continue
		}
		if len(out.Records) == 0 {
			logger.Warn("No standings to export", logger.Fields{
				"source":   out.Job.Source,
				"event_id": out.Job.EventID,
			})
			continue
		}

		for _, records := range output.GroupByEvent(out.Records) {
			files, err := dir.WriteClubExport(records, flagMaxRows)
			report.Files = append(report.Files, files...)
			if err != nil {
				return fmt.Errorf("exporting %s %s: %w", out.Job.Source, out.Job.EventID, err)
			}
			report.Records += len(records)
		}
	}

	logMetrics()
	return WriteReport(os.Stdout, report, rt.format, flagVerbose)
}
