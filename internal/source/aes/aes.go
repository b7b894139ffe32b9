package aes

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
	Name    = "aes"
	BaseURL = "https://results.advancedeventsystems.com"
)

var eventURLPattern = regexp.MustCompile(`/event/([^/?#]+)/?$`)

// Adapter fetches AES standings
type Adapter struct {
	fetcher *source.Fetcher
	baseURL string
}

// New creates an AES adapter using the given fetcher
func New(fetcher *source.Fetcher) *Adapter {
	return &Adapter{
		fetcher: fetcher,
		baseURL: BaseURL,
	}
}

// Name implements source.Adapter
func (a *Adapter) Name() string {
	return Name
}

type eventResponse struct {
	Name      string     `json:"Name"`
	StartDate string     `json:"StartDate"`
	Divisions []division `json:"Divisions"`
}

type division struct {
	DivisionID int    `json:"DivisionId"`
	Name       string `json:"Name"`
}

type standingsResponse struct {
	Value []teamStanding `json:"value"`
}

type teamStanding struct {
	TeamName   string            `json:"TeamName"`
	TeamText   string            `json:"TeamText"`
	TeamCode   source.FlexString `json:"TeamCode"`
	FinishRank source.FlexString `json:"FinishRank"`
	Division   struct {
		Name string `json:"Name"`
	} `json:"Division"`
}

// ParseEventID accepts a bare event id or a public event URL such as
// https://results.advancedeventsystems.com/event/PTAwMDAwMzY3OTU90
func ParseEventID(s string) string {
	s = strings.TrimSpace(s)
	if m := eventURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// FetchStandings implements source.Adapter
func (a *Adapter) FetchStandings(ctx context.Context, eventID string) ([]standing.Record, error) {
	eventID = ParseEventID(eventID)

	var evt eventResponse
	eventURL := fmt.Sprintf("%s/api/event/%s", a.baseURL, url.PathEscape(eventID))
	if err := a.fetcher.GetJSON(ctx, eventURL, &evt); err != nil {
		return nil, fmt.Errorf("fetching event %s: %w", eventID, err)
	}

	eventName := evt.Name
	if eventName == "" {
		eventName = "Event_" + eventID
	}
	eventDate := standing.NormalizeDate(evt.StartDate)

	logger.Info("Processing event", logger.Fields{
		"source":    Name,
		"event_id":  eventID,
		"event":     eventName,
		"divisions": len(evt.Divisions),
	})

	var records []standing.Record
	for _, div := range evt.Divisions {
		teams, err := a.fetchDivision(ctx, eventID, div.DivisionID)
		if err != nil {
			logger.IncrCounter("divisions.skipped")
			logger.Warn("Skipping division", logger.Fields{
				"source":      Name,
				"event_id":    eventID,
				"division_id": div.DivisionID,
				"error":       err.Error(),
			})
			continue
		}
		logger.IncrCounter("divisions.fetched")

		for _, team := range teams {
			divName := team.Division.Name
			if divName == "" {
				divName = div.Name
			}
			name := team.TeamName
			if name == "" {
				name = team.TeamText
			}
			finish := source.NormalizeFinish(team.FinishRank.String())
			records = append(records, standing.Record{
				TeamName:     strings.TrimSpace(name),
				TeamCode:     strings.TrimSpace(team.TeamCode.String()),
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

// fetchDivision loads one division's standings
func (a *Adapter) fetchDivision(ctx context.Context, eventID string, divisionID int) ([]teamStanding, error) {
	standingsURL := fmt.Sprintf(
		"%s/odata/%s/standings(dId=%d,cId=null,tIds=[])?$orderby=OverallRank,FinishRank,TeamName,TeamCode",
		a.baseURL, url.PathEscape(eventID), divisionID,
	)

	var resp standingsResponse
	if err := a.fetcher.GetJSON(ctx, standingsURL, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}
