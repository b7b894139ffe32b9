package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcski77/aes-results-scraping/internal/config"
	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/pivot"
	"github.com/rcski77/aes-results-scraping/internal/source"
	"github.com/rcski77/aes-results-scraping/internal/standing"
	"github.com/rcski77/aes-results-scraping/internal/teamkey"
)

// DefaultWorkers is the fetch concurrency used when none is configured
const DefaultWorkers = 4

// Job is one event to fetch
type Job struct {
	Source    string
	EventID   string
	ShiftYear bool
}

// JobsFromConfig converts configured events into jobs, keeping their order
func JobsFromConfig(events []config.Event) []Job {
	jobs := make([]Job, 0, len(events))
	for _, e := range events {
		jobs = append(jobs, Job{Source: e.Source, EventID: e.ID, ShiftYear: e.ShiftYear})
	}
	return jobs
}

// Outcome is the result of one job
type Outcome struct {
	Job      Job
	Records  []standing.Record
	Err      error
	Duration time.Duration
}

// AllowLister loads a roster allow-list
type AllowLister interface {
	AllowList(ctx context.Context, jackerID string) (map[teamkey.Key]struct{}, error)
}

// Pipeline fetches events through a set of adapters keyed by source name
type Pipeline struct {
	adapters map[string]source.Adapter
	workers  int
}

// New creates a Pipeline. workers bounds the number of concurrent fetches.
func New(adapters map[string]source.Adapter, workers int) *Pipeline {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Pipeline{adapters: adapters, workers: workers}
}

// Fetch runs every job and returns the outcomes in job order
func (p *Pipeline) Fetch(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			outcomes[i] = p.fetch(ctx, job)
			return nil
		})
	}
	// Jobs never return errors; failures live in their outcome slot
	_ = g.Wait()

	return outcomes
}

func (p *Pipeline) fetch(ctx context.Context, job Job) Outcome {
	out := Outcome{Job: job}

	adapter, ok := p.adapters[job.Source]
	if !ok {
		out.Err = fmt.Errorf("no adapter for source %q", job.Source)
		logger.IncrCounter("events.failed")
		logger.Error("Event skipped", logger.Fields{"source": job.Source, "event_id": job.EventID}, out.Err)
		return out
	}

	start := time.Now()
	out.Records, out.Err = adapter.FetchStandings(ctx, job.EventID)
	out.Duration = time.Since(start)
	logger.RecordTiming("event."+job.Source, out.Duration)

	if out.Err != nil {
		logger.IncrCounter("events.failed")
		logger.Error("Event unavailable", logger.Fields{
			"source":   job.Source,
			"event_id": job.EventID,
			"duration": out.Duration.String(),
		}, out.Err)
		return out
	}

	logger.IncrCounter("events.fetched")
	logger.Info("Fetched event", logger.Fields{
		"source":   job.Source,
		"event_id": job.EventID,
		"records":  len(out.Records),
		"duration": out.Duration.String(),
	})
	return out
}

// Summary counts what a run produced
type Summary struct {
	Events       int
	FailedEvents int
	Records      int
	Skipped      int
	Duplicates   int
	Teams        int
	RosterTeams  int
	RosterFailed bool
}

// Result is the output of a pivot run
type Result struct {
	Outcomes   []Outcome
	Aggregator *pivot.Aggregator
	// Unfiltered holds every team. Filtered is the roster inner join and is
	// nil when no roster was requested.
	Unfiltered *pivot.WideTable
	Filtered   *pivot.WideTable
	Summary    Summary
}

// Aggregate merges outcomes in order into a new Aggregator. Failed outcomes
// are counted and otherwise ignored.
func Aggregate(outcomes []Outcome) (*pivot.Aggregator, Summary) {
	agg := pivot.NewAggregator()
	summary := Summary{Events: len(outcomes)}

	for _, out := range outcomes {
		if out.Err != nil {
			summary.FailedEvents++
			continue
		}
		res := agg.Add(out.Records, out.Job.ShiftYear)
		summary.Records += res.Accepted
		summary.Skipped += res.Skipped
		summary.Duplicates += res.Duplicates
	}
	summary.Teams = agg.Len()
	return agg, summary
}

// Pivot fetches jobs, merges them and builds the wide tables. When roster is
// non-nil the allow-list for jackerID is loaded alongside the fetches. A
// roster that cannot be loaded filters out every team, so the filtered table
// is still produced but holds no rows.
func (p *Pipeline) Pivot(ctx context.Context, jobs []Job, roster AllowLister, jackerID string) *Result {
	var (
		allowList map[teamkey.Key]struct{}
		rosterErr error
		outcomes  []Outcome
	)

	var g errgroup.Group
	if roster != nil {
		g.Go(func() error {
			allowList, rosterErr = roster.AllowList(ctx, jackerID)
			return nil
		})
	}
	g.Go(func() error {
		outcomes = p.Fetch(ctx, jobs)
		return nil
	})
	_ = g.Wait()

	agg, summary := Aggregate(outcomes)
	result := &Result{
		Outcomes:   outcomes,
		Aggregator: agg,
		Unfiltered: pivot.BuildWideTable(agg.Entries(), agg.EventNames(), nil),
	}

	if roster != nil {
		if rosterErr != nil {
			summary.RosterFailed = true
			logger.Error("Roster unavailable, filtered table will be empty", logger.Fields{
				"jacker_id": jackerID,
			}, rosterErr)
			allowList = map[teamkey.Key]struct{}{}
		}
		summary.RosterTeams = len(allowList)
		result.Filtered = pivot.BuildWideTable(agg.Entries(), agg.EventNames(), allowList)
	}

	logger.SetGauge("teams", float64(summary.Teams))
	logger.Info("Pivot complete", logger.Fields{
		"events":        summary.Events,
		"failed_events": summary.FailedEvents,
		"records":       summary.Records,
		"skipped":       summary.Skipped,
		"duplicates":    summary.Duplicates,
		"teams":         summary.Teams,
		"columns":       len(result.Unfiltered.Columns),
	})

	result.Summary = summary
	return result
}
