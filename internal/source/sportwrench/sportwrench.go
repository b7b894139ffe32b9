package sportwrench

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/source"
	"github.com/rcski77/aes-results-scraping/internal/standing"
)

const (
	Name    = "sportwrench"
	BaseURL = "https://events.sportwrench.com"
)

var eventURLPattern = regexp.MustCompile(`events/([a-z0-9]+)`)

// ParseEventID accepts a bare event id or an event URL such as
// https://events.sportwrench.com/#/events/090be3e48/divisions
func ParseEventID(s string) string {
	s = strings.TrimSpace(s)
	if m := eventURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

type eventInfo struct {
	LongName  string `json:"long_name"`
	DateStart string `json:"date_start"`
}

type division struct {
	ID   source.FlexString `json:"division_id"`
	Name string            `json:"name"`
}

type standingsResponse struct {
	Teams map[string][]restTeam `json:"teams"`
}

type restTeam struct {
	TeamName         string            `json:"team_name"`
	OrganizationCode source.FlexString `json:"organization_code"`
	SeedCurrent      source.FlexString `json:"seed_current"`
	DivisionName     string            `json:"division_name"`
}

// metadata loads the event and division documents shared by every
// SportWrench adapter.
type metadata struct {
	fetcher *source.Fetcher
	baseURL string
}

func (m metadata) event(ctx context.Context, eventID string) (eventInfo, error) {
	var info eventInfo
	u := fmt.Sprintf("%s/api/esw/%s", m.baseURL, url.PathEscape(eventID))
	if err := m.fetcher.GetJSON(ctx, u, &info); err != nil {
		return info, fmt.Errorf("fetching event %s: %w", eventID, err)
	}
	if info.LongName == "" {
		info.LongName = "Event_" + eventID
	}
	info.DateStart = standing.NormalizeDate(info.DateStart)
	return info, nil
}

func (m metadata) divisions(ctx context.Context, eventID string) ([]division, error) {
	var divs []division
	u := fmt.Sprintf("%s/api/esw/%s/divisions", m.baseURL, url.PathEscape(eventID))
	if err := m.fetcher.GetJSON(ctx, u, &divs); err != nil {
		return nil, fmt.Errorf("fetching divisions of %s: %w", eventID, err)
	}
	return divs, nil
}

// Adapter fetches standings from the SportWrench REST API
type Adapter struct {
	meta metadata
}

// New creates a REST adapter using the given fetcher
func New(fetcher *source.Fetcher) *Adapter {
	return &Adapter{meta: metadata{fetcher: fetcher, baseURL: BaseURL}}
}

// Name implements source.Adapter
func (a *Adapter) Name() string {
	return Name
}

// FetchStandings implements source.Adapter
func (a *Adapter) FetchStandings(ctx context.Context, eventID string) ([]standing.Record, error) {
	eventID = ParseEventID(eventID)

	info, err := a.meta.event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	divs, err := a.meta.divisions(ctx, eventID)
	if err != nil {
		return nil, err
	}

	logger.Info("Processing event", logger.Fields{
		"source":    Name,
		"event_id":  eventID,
		"event":     info.LongName,
		"divisions": len(divs),
	})

	var records []standing.Record
	for _, div := range divs {
		var resp standingsResponse
		u := fmt.Sprintf("%s/api/esw/%s/divisions/%s/standings",
			a.meta.baseURL, url.PathEscape(eventID), url.PathEscape(div.ID.String()))
		if err := a.meta.fetcher.GetJSON(ctx, u, &resp); err != nil {
			skipDivision(Name, eventID, div.ID.String(), err)
			continue
		}
		logger.IncrCounter("divisions.fetched")

		// Pools arrive as a JSON object; walk them in a stable order.
		groups := make([]string, 0, len(resp.Teams))
		for g := range resp.Teams {
			groups = append(groups, g)
		}
		sort.Strings(groups)

		for _, g := range groups {
			for _, team := range resp.Teams[g] {
				divName := strings.TrimSpace(div.Name)
				if divName == "" {
					divName = strings.TrimSpace(team.DivisionName)
				}
				finish := source.NormalizeFinish(team.SeedCurrent.String())
				records = append(records, standing.Record{
					TeamName:     strings.TrimSpace(team.TeamName),
					TeamCode:     strings.TrimSpace(team.OrganizationCode.String()),
					Finish:       finish,
					FinishLabel:  standing.Label(finish, divName),
					DivisionName: divName,
					EventName:    info.LongName,
					EventID:      eventID,
					EventDate:    info.DateStart,
					Source:       Name,
				})
			}
		}
	}

	return source.Clean(Name, records), nil
}

func skipDivision(adapter, eventID, divisionID string, err error) {
	logger.IncrCounter("divisions.skipped")
	logger.Warn("Skipping division", logger.Fields{
		"source":      adapter,
		"event_id":    eventID,
		"division_id": divisionID,
		"error":       err.Error(),
	})
}
