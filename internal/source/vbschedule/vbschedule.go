package vbschedule

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/source"
	"github.com/rcski77/aes-results-scraping/internal/standing"
)

const (
	Name    = "vbschedule"
	BaseURL = "https://api.vbschedule.com"
)

var eventURLPattern = regexp.MustCompile(`/event/(\d+)`)

// ParseEventID accepts a bare event id or a results URL such as
// https://vbschedule.com/app/results/event/97/divisions
func ParseEventID(s string) string {
	s = strings.TrimSpace(s)
	if m := eventURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

type eventResponse struct {
	Event struct {
		Name           string     `json:"name"`
		EventDates     []string   `json:"event_dates"`
		EventDivisions []division `json:"eventDivisions"`
	} `json:"event"`
}

type division struct {
	ID   source.FlexString `json:"id"`
	Name string            `json:"name"`
}

type teamsResponse struct {
	Teams []struct {
		Name                string            `json:"name"`
		AlternateIdentifier source.FlexString `json:"alternate_identifier"`
		FinalFinish         source.FlexString `json:"final_finish"`
	} `json:"teams"`
}

// Adapter fetches VBSchedule standings
type Adapter struct {
	fetcher *source.Fetcher
	baseURL string
}

// New creates a VBSchedule adapter using the given fetcher
func New(fetcher *source.Fetcher) *Adapter {
	return &Adapter{fetcher: fetcher, baseURL: BaseURL}
}

// Name implements source.Adapter
func (a *Adapter) Name() string {
	return Name
}

// FetchStandings implements source.Adapter
func (a *Adapter) FetchStandings(ctx context.Context, eventID string) ([]standing.Record, error) {
	eventID = ParseEventID(eventID)

	var evt eventResponse
	eventURL := fmt.Sprintf("%s/results/event/%s", a.baseURL, url.PathEscape(eventID))
	if err := a.fetcher.GetJSON(ctx, eventURL, &evt); err != nil {
		return nil, fmt.Errorf("fetching event %s: %w", eventID, err)
	}

	eventName := strings.TrimSpace(evt.Event.Name)
	if eventName == "" {
		eventName = "Event_" + eventID
	}
	var eventDate string
	if len(evt.Event.EventDates) > 0 {
		eventDate = standing.NormalizeDate(evt.Event.EventDates[0])
	}

	logger.Info("Processing event", logger.Fields{
		"source":    Name,
		"event_id":  eventID,
		"event":     eventName,
		"divisions": len(evt.Event.EventDivisions),
	})

	var records []standing.Record
	for _, div := range evt.Event.EventDivisions {
		var resp teamsResponse
		teamsURL := fmt.Sprintf("%s/results/event-division/%s/teams", a.baseURL, url.PathEscape(div.ID.String()))
		if err := a.fetcher.GetJSON(ctx, teamsURL, &resp); err != nil {
			logger.IncrCounter("divisions.skipped")
			logger.Warn("Skipping division", logger.Fields{
				"source":      Name,
				"event_id":    eventID,
				"division_id": div.ID.String(),
				"error":       err.Error(),
			})
			continue
		}
		logger.IncrCounter("divisions.fetched")

		divName := strings.TrimSpace(div.Name)
		for _, team := range resp.Teams {
			finish := source.NormalizeFinish(team.FinalFinish.String())
			records = append(records, standing.Record{
				TeamName:     strings.TrimSpace(team.Name),
				TeamCode:     strings.TrimSpace(team.AlternateIdentifier.String()),
				Finish:       finish,
				FinishLabel:  standing.Label(finish, divName),
				DivisionName: divName,
				EventName:    eventName,
				EventID:      eventID,
				EventDate:    eventDate,
				Source:       Name,
			})
		}
	}

	return source.Clean(Name, records), nil
}
