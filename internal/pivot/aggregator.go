package pivot

import (
	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/standing"
	"github.com/rcski77/aes-results-scraping/internal/teamkey"
)

// TeamEntry accumulates one team's finishes keyed by event name
type TeamEntry struct {
	Key         teamkey.Key
	DisplayName string
	Events      map[string]string

	order []string

	// nameFromCurrent is set once DisplayName came from a record whose code
	// maps to Key without a year shift.
	nameFromCurrent bool
}

// EventNames returns the entry's events in the order they were added
func (e *TeamEntry) EventNames() []string {
	return append([]string(nil), e.order...)
}

// Finish returns the finish label recorded for event
func (e *TeamEntry) Finish(event string) (string, bool) {
	label, ok := e.Events[event]
	return label, ok
}

// AddResult summarises one Add call
type AddResult struct {
	Accepted   int // records that passed validation
	Duplicates int // accepted records discarded because the event was already set
	Skipped    int // malformed records
}

// Aggregator merges standing records into team entries. It is not safe for
// concurrent use.
type Aggregator struct {
	entries    []*TeamEntry
	index      map[teamkey.Key]*TeamEntry
	eventNames []string
	seenEvents map[string]struct{}
	records    []standing.Record
}

// NewAggregator returns an empty Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{
		index:      make(map[teamkey.Key]*TeamEntry),
		seenEvents: make(map[string]struct{}),
	}
}

// Add merges records in order. With shiftYear the team codes are moved
// forward one season before keying, so a prior season's results land on the
// current season's rows.
func (a *Aggregator) Add(records []standing.Record, shiftYear bool) AddResult {
	var result AddResult

	for _, r := range records {
		if err := r.Validate(); err != nil {
			result.Skipped++
			logger.IncrCounter("records.skipped")
			logger.Warn("Skipping malformed record", logger.Fields{
				"source": r.Source,
				"event":  r.EventName,
				"error":  err.Error(),
			})
			continue
		}
		result.Accepted++
		a.records = append(a.records, r)

		key := teamkey.Normalize(r.TeamCode, shiftYear)
		current := !shiftYear || teamkey.Normalize(r.TeamCode, false) == key

		entry, ok := a.index[key]
		if !ok {
			entry = &TeamEntry{
				Key:             key,
				DisplayName:     r.TeamName,
				Events:          make(map[string]string),
				nameFromCurrent: current,
			}
			a.index[key] = entry
			a.entries = append(a.entries, entry)
		} else if current && !entry.nameFromCurrent {
			entry.DisplayName = r.TeamName
			entry.nameFromCurrent = true
		}

		if _, seen := a.seenEvents[r.EventName]; !seen {
			a.seenEvents[r.EventName] = struct{}{}
			a.eventNames = append(a.eventNames, r.EventName)
		}

		if _, exists := entry.Events[r.EventName]; exists {
			result.Duplicates++
			continue
		}
		entry.Events[r.EventName] = r.FinishLabel
		entry.order = append(entry.order, r.EventName)
	}

	logger.AddCounter("records.accepted", int64(result.Accepted))
	logger.AddCounter("records.duplicate", int64(result.Duplicates))
	return result
}

// Entries returns the team entries in the order their keys were first seen
func (a *Aggregator) Entries() []*TeamEntry {
	return append([]*TeamEntry(nil), a.entries...)
}

// Entry looks up the entry for key
func (a *Aggregator) Entry(key teamkey.Key) (*TeamEntry, bool) {
	e, ok := a.index[key]
	return e, ok
}

// EventNames returns the accepted event names in first-seen order
func (a *Aggregator) EventNames() []string {
	return append([]string(nil), a.eventNames...)
}

// Len returns the number of team entries
func (a *Aggregator) Len() int {
	return len(a.entries)
}

// Records returns every accepted record in the order it was added,
// duplicates included.
func (a *Aggregator) Records() []standing.Record {
	return append([]standing.Record(nil), a.records...)
}
