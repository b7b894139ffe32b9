package standing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rcski77/aes-results-scraping/internal/teamkey"
)

// ErrMalformedRecord marks a fetched record that is missing a required field.
var ErrMalformedRecord = errors.New("malformed record")

// Record is one team's finish in one division of one event.
//
// Finish is the bare rank as reported by the source. FinishLabel is the
// composite "Finish (Division)" used in pivot cells.
type Record struct {
	TeamName     string `json:"team_name" csv:"TeamName"`
	TeamCode     string `json:"team_code" csv:"TeamCode"`
	Finish       string `json:"finish" csv:"Finish"`
	FinishLabel  string `json:"finish_label" csv:"FinishRank"`
	DivisionName string `json:"division_name" csv:"DivisionName"`
	EventName    string `json:"event_name" csv:"EventName"`
	EventID      string `json:"event_id" csv:"EventID"`
	EventDate    string `json:"event_date,omitempty" csv:"EventDate"`
	Source       string `json:"source" csv:"Source"`
}

// Label builds the composite finish label used as a pivot cell, e.g.
// "3rd (14 Open)". A blank division yields the bare finish.
func Label(finish, division string) string {
	finish = strings.TrimSpace(finish)
	division = strings.TrimSpace(division)
	if finish == "" {
		return ""
	}
	if division == "" {
		return finish
	}
	return fmt.Sprintf("%s (%s)", finish, division)
}

// Validate checks the fields the aggregator depends on
func (r Record) Validate() error {
	switch {
	case teamkey.IsEmpty(r.TeamCode):
		return fmt.Errorf("%w: team %q has no team code", ErrMalformedRecord, r.TeamName)
	case strings.TrimSpace(r.FinishLabel) == "":
		return fmt.Errorf("%w: team %q (%s) has no finish", ErrMalformedRecord, r.TeamName, r.TeamCode)
	case strings.TrimSpace(r.EventName) == "":
		return fmt.Errorf("%w: team %q (%s) has no event name", ErrMalformedRecord, r.TeamName, r.TeamCode)
	}
	return nil
}

// Clean drops records that fail Validate, preserving the order of the rest.
// The returned errors describe each dropped record.
func Clean(records []Record) ([]Record, []error) {
	kept := make([]Record, 0, len(records))
	var dropped []error
	for _, r := range records {
		if err := r.Validate(); err != nil {
			dropped = append(dropped, err)
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped
}
