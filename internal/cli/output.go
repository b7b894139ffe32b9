package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rcski77/aes-results-scraping/internal/pipeline"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// EventReport describes one fetched event
type EventReport struct {
	Source   string `json:"source"`
	EventID  string `json:"event_id"`
	Records  int    `json:"records"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// RunReport contains the summary printed when a command finishes
type RunReport struct {
	RunID        string        `json:"run_id"`
	Command      string        `json:"command"`
	CompletedAt  time.Time     `json:"completed_at"`
	Events       []EventReport `json:"events,omitempty"`
	Records      int           `json:"records"`
	Skipped      int           `json:"skipped"`
	Duplicates   int           `json:"duplicates"`
	Teams        int           `json:"teams"`
	RosterTeams  int           `json:"roster_teams,omitempty"`
	RosterFailed bool          `json:"roster_failed,omitempty"`
	Files        []string      `json:"files"`
}

// newRunReport starts a report from fetch outcomes
func newRunReport(runID, command string, outcomes []pipeline.Outcome) *RunReport {
	report := &RunReport{
		RunID:       runID,
		Command:     command,
		CompletedAt: time.Now().UTC(),
		Files:       []string{},
	}
	for _, out := range outcomes {
		ev := EventReport{
			Source:   out.Job.Source,
			EventID:  out.Job.EventID,
			Records:  len(out.Records),
			Duration: out.Duration.Round(time.Millisecond).String(),
		}
		if out.Err != nil {
			ev.Error = out.Err.Error()
		}
		report.Events = append(report.Events, ev)
	}
	return report
}

// applySummary copies the pivot counts into the report
func (r *RunReport) applySummary(s pipeline.Summary) {
	r.Records = s.Records
	r.Skipped = s.Skipped
	r.Duplicates = s.Duplicates
	r.Teams = s.Teams
	r.RosterTeams = s.RosterTeams
	r.RosterFailed = s.RosterFailed
}

// failedEvents counts events that could not be fetched
func (r *RunReport) failedEvents() int {
	n := 0
	for _, ev := range r.Events {
		if ev.Error != "" {
			n++
		}
	}
	return n
}

// WriteReport writes the report in the specified format
func WriteReport(w io.Writer, report *RunReport, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText:
		return writeText(w, report, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the report as JSON
func writeJSON(w io.Writer, report *RunReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// writeText outputs the report as human-readable text
func writeText(w io.Writer, report *RunReport, verbose bool) error {
	if len(report.Events) > 0 {
		failed := report.failedEvents()
		fmt.Fprintf(w, "Events: %d fetched, %d failed\n", len(report.Events)-failed, failed)

		for _, ev := range report.Events {
			if ev.Error != "" {
				fmt.Fprintf(w, "  FAILED %s %s: %s\n", ev.Source, ev.EventID, ev.Error)
				continue
			}
			if verbose {
				fmt.Fprintf(w, "  %s %s: %d records in %s\n", ev.Source, ev.EventID, ev.Records, ev.Duration)
			}
		}
	}

	if report.Teams > 0 || report.Records > 0 {
		fmt.Fprintf(w, "Records: %d (%d duplicates, %d skipped)\n", report.Records, report.Duplicates, report.Skipped)
		fmt.Fprintf(w, "Teams: %d\n", report.Teams)
	}
	if report.RosterFailed {
		fmt.Fprintln(w, "Roster: unavailable, filtered table is empty")
	} else if report.RosterTeams > 0 {
		fmt.Fprintf(w, "Roster: %d teams\n", report.RosterTeams)
	}

	if len(report.Files) == 0 {
		fmt.Fprintln(w, "No files written.")
		return nil
	}
	fmt.Fprintln(w, "Wrote:")
	for _, f := range report.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return nil
}
