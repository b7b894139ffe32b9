package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcski77/aes-results-scraping/internal/config"
	"github.com/rcski77/aes-results-scraping/internal/output"
	"github.com/rcski77/aes-results-scraping/internal/pipeline"
	"github.com/rcski77/aes-results-scraping/internal/roster"
	"github.com/rcski77/aes-results-scraping/internal/source"
)

var (
	flagNoRoster  bool
	flagOutputDir string
)

func newPivotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pivot",
		Short: "Build the team-by-event standings table",
		Long: `Fetch every configured event, merge the standings by team code and write
one row per team with one column per event.

When a roster is enabled the main table only holds teams registered for the
Jacker tournament and the complete table is written to the unfiltered file.
Events that cannot be fetched are reported and left out; the output files
are always written.`,
		Args: cobra.NoArgs,
		RunE: runPivot,
	}

	cmd.Flags().BoolVar(&flagNoRoster, "no-roster", false, "Skip the roster filter even if enabled in the config")
	cmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Directory for output files (overrides output.dir)")

	return cmd
}

func runPivot(cmd *cobra.Command, args []string) error {
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

	dir, err := output.NewDir(cfg.Output.Dir)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	adapters, release := buildAdapters(ctx, cfg)
	defer release()

	var lister pipeline.AllowLister
	if cfg.Roster.Enabled && !flagNoRoster {
		fetcher := source.NewFetcher(roster.Name, fetcherConfig(cfg.Fetch))
		lister = roster.New(fetcher, cfg.Roster.Cookie)
	}

	p := pipeline.New(adapters, cfg.Fetch.Workers)
	result := p.Pivot(ctx, pipeline.JobsFromConfig(cfg.Events), lister, cfg.Roster.JackerID)

	report := newRunReport(rt.runID, "pivot", result.Outcomes)
	report.applySummary(result.Summary)

	files, err := writePivotOutputs(ctx, dir, cfg.Output, rt.runID, result)
	report.Files = append(report.Files, files...)
	if err != nil {
		return err
	}

	logMetrics()
	return WriteReport(os.Stdout, report, rt.format, flagVerbose)
}
