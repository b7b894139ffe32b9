package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcski77/aes-results-scraping/internal/output"
	"github.com/rcski77/aes-results-scraping/internal/roster"
	"github.com/rcski77/aes-results-scraping/internal/source"
)

var (
	flagRosterOut string
	flagCookie    string
)

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster [jacker-id]",
		Short: "Export the team list of a Jacker tournament",
		Long: `Download the teams registered for a Jacker tournament and write them as
CSV (team code, team name). The tournament defaults to roster.jacker_id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRoster,
	}

	cmd.Flags().StringVar(&flagRosterOut, "out", "", "Output file (default jacker_teams_{id}.csv)")
	cmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Directory for output files (overrides output.dir)")

	return cmd
}

func newRegistrationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registrations [jacker-id]",
		Short: "Export confirmed, pending and deleted Jacker registrations",
		Long: `Download the registrations page of a Jacker tournament and write every
confirmed, pending and deleted registration as CSV. The page requires a
signed-in session; pass its cookie with --cookie or roster.cookie.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRegistrations,
	}

	cmd.Flags().StringVar(&flagRosterOut, "out", "", "Output file (default all_registrations_{id}.csv)")
	cmd.Flags().StringVar(&flagCookie, "cookie", "", "Jacker session cookie (overrides roster.cookie)")
	cmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "Directory for output files (overrides output.dir)")

	return cmd
}

// jackerID picks the tournament from the argument or the config
func jackerID(args []string, configured string) (string, error) {
	id := configured
	if len(args) > 0 {
		id = args[0]
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("no Jacker tournament id (pass one or set roster.jacker_id)")
	}
	return id, nil
}

// rosterFileName returns name, or the default built from prefix and id
func rosterFileName(name, prefix, id string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s_%s.csv", prefix, output.SanitizeFileName(id))
}

func runRoster(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	id, err := jackerID(args, cfg.Roster.JackerID)
	if err != nil {
		return err
	}
	if flagOutputDir != "" {
		cfg.Output.Dir = flagOutputDir
	}
	dir, err := output.NewDir(cfg.Output.Dir)
	if err != nil {
		return err
	}

	client := roster.New(source.NewFetcher(roster.Name, fetcherConfig(cfg.Fetch)), cfg.Roster.Cookie)
	teams, err := client.Teams(cmd.Context(), id)
	if err != nil {
		return err
	}

	path, err := dir.WriteRoster(rosterFileName(flagRosterOut, "jacker_teams", id), teams)
	if err != nil {
		return err
	}

	report := newRunReport(rt.runID, "roster", nil)
	report.RosterTeams = len(teams)
	report.Files = append(report.Files, path)
	return WriteReport(os.Stdout, report, rt.format, flagVerbose)
}

func runRegistrations(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	id, err := jackerID(args, cfg.Roster.JackerID)
	if err != nil {
		return err
	}
	if flagOutputDir != "" {
		cfg.Output.Dir = flagOutputDir
	}
	cookie := cfg.Roster.Cookie
	if flagCookie != "" {
		cookie = flagCookie
	}
	dir, err := output.NewDir(cfg.Output.Dir)
	if err != nil {
		return err
	}

	client := roster.New(source.NewFetcher(roster.Name, fetcherConfig(cfg.Fetch)), cookie)
	regs, err := client.Registrations(cmd.Context(), id)
	if err != nil {
		return err
	}

	path, err := dir.WriteRegistrations(rosterFileName(flagRosterOut, "all_registrations", id), regs)
	if err != nil {
		return err
	}

	report := newRunReport(rt.runID, "registrations", nil)
	report.Records = len(regs)
	report.Files = append(report.Files, path)
	return WriteReport(os.Stdout, report, rt.format, flagVerbose)
}
