package roster

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/source"
	"github.com/rcski77/aes-results-scraping/internal/teamkey"
)

const (
	Name             = "jacker"
	TeamsURL         = "https://www.triplecrownsports.com/Data/UAGetTeams/"
	RegistrationsURL = "https://jacker.triplecrownsports.com/Tournament/GetRegistrations"
)

// Team is one entry in a tournament's team list
type Team struct {
	TeamCode string `json:"TeamCode" csv:"TeamCode"`
	TeamName string `json:"TeamName" csv:"TeamName"`
}

// Client reads Jacker team lists and registrations
type Client struct {
	fetcher          *source.Fetcher
	teamsURL         string
	registrationsURL string
	cookie           string
}

// New creates a Client. cookie is sent verbatim with registration requests
// and may be empty.
func New(fetcher *source.Fetcher, cookie string) *Client {
	return &Client{
		fetcher:          fetcher,
		teamsURL:         TeamsURL,
		registrationsURL: RegistrationsURL,
		cookie:           cookie,
	}
}

// Teams returns the tournament's team list with team codes lower-cased
func (c *Client) Teams(ctx context.Context, jackerID string) ([]Team, error) {
	var teams []Team
	u := c.teamsURL + "?" + url.Values{"id": {jackerID}}.Encode()
	if err := c.fetcher.GetJSON(ctx, u, &teams); err != nil {
		return nil, fmt.Errorf("fetching Jacker teams %s: %w", jackerID, err)
	}

	for i := range teams {
		teams[i].TeamCode = strings.ToLower(strings.TrimSpace(teams[i].TeamCode))
		teams[i].TeamName = strings.TrimSpace(teams[i].TeamName)
	}

	logger.Info("Pulled Jacker teams", logger.Fields{
		"jacker_id": jackerID,
		"teams":     len(teams),
	})
	return teams, nil
}

// AllowList returns the normalized keys of the tournament's teams
func (c *Client) AllowList(ctx context.Context, jackerID string) (map[teamkey.Key]struct{}, error) {
	teams, err := c.Teams(ctx, jackerID)
	if err != nil {
		return nil, err
	}
	return Keys(teams), nil
}

// Keys builds an allow-list from a team list. Teams without a usable code
// are left out. The result is never nil.
func Keys(teams []Team) map[teamkey.Key]struct{} {
	keys := make(map[teamkey.Key]struct{}, len(teams))
	for _, t := range teams {
		if teamkey.IsEmpty(t.TeamCode) {
			continue
		}
		keys[teamkey.Normalize(t.TeamCode, false)] = struct{}{}
	}
	return keys
}

// Registrations fetches and parses the registrations page of a tournament
func (c *Client) Registrations(ctx context.Context, jackerID string) ([]Registration, error) {
	u := c.registrationsURL + "?" + url.Values{
		"id":     {jackerID},
		"sortBy": {"TeamName"},
	}.Encode()

	header := http.Header{"X-Requested-With": {"XMLHttpRequest"}}
	if c.cookie != "" {
		header.Set("Cookie", c.cookie)
	}

	body, err := c.fetcher.Get(ctx, u, header)
	if err != nil {
		return nil, fmt.Errorf("fetching Jacker registrations %s: %w", jackerID, err)
	}

	regs, err := ParseRegistrations(strings.NewReader(string(body)), jackerID)
	if err != nil {
		return nil, err
	}

	logger.Info("Parsed Jacker registrations", logger.Fields{
		"jacker_id":     jackerID,
		"registrations": len(regs),
	})
	return regs, nil
}
