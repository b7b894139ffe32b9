package sportwrench

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rcski77/aes-results-scraping/internal/source"
)

type fakeRenderer struct {
	pages     map[string]string
	selectors map[string]string
}

func (f *fakeRenderer) Render(ctx context.Context, url, waitSelector string) (string, error) {
	if f.selectors == nil {
		f.selectors = make(map[string]string)
	}
	f.selectors[url] = waitSelector
	html, ok := f.pages[url]
	if !ok {
		return "", errors.New("timed out waiting for selector")
	}
	return html, nil
}

const (
	eventPage = `<html><body><div class="esw_title"> Lakeshore Qualifier </div></body></html>`

	divisionsPage = `<html><body>
		<a href="#/events/abc123/divisions/301">14 Open</a>
		<a href="#/events/abc123/divisions/301">14 Open</a>
		<a href="#/events/abc123/divisions/302"> 15
			Club </a>
		<a href="#/events/abc123/divisions/all/teams">All teams</a>
	</body></html>`

	standingsPage = `<html><body><table>
		<tr><th>Finish</th><th>Team</th><th>W-L</th><th>Code</th><th>Region</th></tr>
		<tr><td>1</td><td><span class="standings-team-name">Team One</span></td><td>5-0</td><td>G14ONE1</td><td>GL</td></tr>
		<tr><td>2</td><td><span class="standings-team-name">Team Two</span></td><td>4-1</td><td>G14TWO1</td><td>GL</td></tr>
		<tr><td colspan="2">Pool play</td></tr>
	</table></body></html>`
)

func TestRenderedFetchStandings(t *testing.T) {
	base := "https://events.sportwrench.com/#/events/abc123"
	renderer := &fakeRenderer{pages: map[string]string{
		base:                              eventPage,
		base + "/divisions":               divisionsPage,
		base + "/divisions/301/standings": standingsPage,
	}}
	a := NewRendered(renderer, nil)

	records, err := a.FetchStandings(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("FetchStandings failed: %v", err)
	}

	// Division 302 has no standings page and is skipped
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(records), records)
	}

	first := records[0]
	if first.TeamName != "Team One" || first.TeamCode != "G14ONE1" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.FinishLabel != "1 (14 Open)" {
		t.Errorf("expected label '1 (14 Open)', got %q", first.FinishLabel)
	}
	if first.EventName != "Lakeshore Qualifier" {
		t.Errorf("expected event name 'Lakeshore Qualifier', got %q", first.EventName)
	}
	if first.Source != RenderedName {
		t.Errorf("expected source %q, got %q", RenderedName, first.Source)
	}
	if first.EventDate != "" {
		t.Errorf("expected no event date without a fetcher, got %q", first.EventDate)
	}

	if got := renderer.selectors[base]; got != titleSelector {
		t.Errorf("event page waited for %q", got)
	}
	if got := renderer.selectors[base+"/divisions"]; got != divisionSelector {
		t.Errorf("divisions page waited for %q", got)
	}
	if got := renderer.selectors[base+"/divisions/301/standings"]; got != standingsSelector {
		t.Errorf("standings page waited for %q", got)
	}
}

func renderedPages() *fakeRenderer {
	base := "https://events.sportwrench.com/#/events/abc123"
	return &fakeRenderer{pages: map[string]string{
		base:                              eventPage,
		base + "/divisions":               divisionsPage,
		base + "/divisions/301/standings": standingsPage,
	}}
}

func TestRenderedFetchStandingsEventDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/esw/abc123" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"long_name":"Lakeshore Qualifier","date_start":"2024/02/17"}`)
	}))
	defer server.Close()

	a := NewRendered(renderedPages(), source.NewFetcher(Name, source.FetcherConfig{}))
	a.meta.baseURL = server.URL

	records, err := a.FetchStandings(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("FetchStandings failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	for _, r := range records {
		if r.EventDate != "2024-02-17" {
			t.Errorf("expected event date 2024-02-17, got %q", r.EventDate)
		}
	}
}

func TestRenderedFetchStandingsEventDateUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	a := NewRendered(renderedPages(), source.NewFetcher(Name, source.FetcherConfig{}))
	a.meta.baseURL = server.URL

	records, err := a.FetchStandings(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("FetchStandings failed: %v", err)
	}
	if len(records) != 2 || records[0].EventDate != "" {
		t.Errorf("expected 2 undated records, got %+v", records)
	}
}

func TestRenderedFetchStandingsEventUnavailable(t *testing.T) {
	a := NewRendered(&fakeRenderer{}, nil)

	_, err := a.FetchStandings(context.Background(), "abc123")
	if !source.IsUnavailable(err) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
}

func TestParseDivisionLinks(t *testing.T) {
	divs, err := parseDivisionLinks(divisionsPage)
	if err != nil {
		t.Fatalf("parseDivisionLinks failed: %v", err)
	}

	if len(divs) != 2 {
		t.Fatalf("expected 2 divisions, got %d: %+v", len(divs), divs)
	}
	if divs[0].ID != "301" || divs[0].Name != "14 Open" {
		t.Errorf("unexpected first division: %+v", divs[0])
	}
	if divs[1].ID != "302" || divs[1].Name != "15 Club" {
		t.Errorf("unexpected second division: %+v", divs[1])
	}
}

func TestParseStandingsTable(t *testing.T) {
	rows, err := parseStandingsTable(standingsPage)
	if err != nil {
		t.Fatalf("parseStandingsTable failed: %v", err)
	}

	expected := []tableRow{
		{finish: "1", name: "Team One", code: "G14ONE1"},
		{finish: "2", name: "Team Two", code: "G14TWO1"},
	}
	if len(rows) != len(expected) {
		t.Fatalf("expected %d rows, got %d: %+v", len(expected), len(rows), rows)
	}
	for i := range expected {
		if rows[i] != expected[i] {
			t.Errorf("row %d: got %+v, expected %+v", i, rows[i], expected[i])
		}
	}
}

func TestParseEventTitleMissing(t *testing.T) {
	_, err := parseEventTitle(`<html><body><h1>Loading</h1></body></html>`)
	if !errors.Is(err, source.ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}
