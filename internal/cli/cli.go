package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rcski77/aes-results-scraping/internal/config"
	"github.com/rcski77/aes-results-scraping/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aes-results",
		Short: "Scrape tournament standings and pivot them by team",
		Long: `A CLI tool that pulls tournament standings from AES, SportWrench and
VBSchedule, reconciles teams across events by team code and writes one
row per team with one column per event.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Run file (default ./aes-results.yaml)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Summary format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newPivotCmd(),
		newExportCmd(),
		newRosterCmd(),
		newRegistrationsCmd(),
	)

	return cmd
}

// runEnv holds what every command needs after startup
type runEnv struct {
	cfg    *config.Config
	runID  string
	format OutputFormat
	closer io.Closer
}

// Close releases the log file, if any. A failed close is logged.
func (rt *runEnv) Close() {
	if rt.closer == nil {
		return
	}
	if err := rt.closer.Close(); err != nil {
		logger.Warn("Closing log file failed", logger.Fields{"error": err.Error()})
	}
}

// setup loads the configuration and installs the run logger
func setup() (*runEnv, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logger.LevelDebug
	}

	rt := &runEnv{
		cfg:    cfg,
		runID:  uuid.NewString(),
		format: format,
	}

	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		file := logger.RotatingFile(cfg.Log.File)
		rt.closer = file
		out = io.MultiWriter(os.Stderr, file)
	}
	logger.SetDefault(logger.New(level, out).With(logger.Fields{"run_id": rt.runID}))

	logger.Debug("Loaded configuration", logger.Fields{
		"config":  flagConfig,
		"events":  len(cfg.Events),
		"workers": cfg.Fetch.Workers,
		"roster":  cfg.Roster.Enabled,
	})
	return rt, nil
}

// logMetrics writes the run metrics as a final log line
func logMetrics() {
	logger.Info("Run metrics", logger.Fields{"metrics": logger.GetMetricsSnapshot()})
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
