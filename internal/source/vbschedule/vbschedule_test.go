package vbschedule

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rcski77/aes-results-scraping/internal/source"
)

func TestFetchStandings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/results/event/97":
			fmt.Fprint(w, `{"event":{"name":"Harvest Cup","event_dates":["2024-11-02T00:00:00Z","2024-11-03T00:00:00Z"],
				"eventDivisions":[{"id":1001,"name":"13 Open"},{"id":1002,"name":"14 Club"}]}}`)
		case "/results/event-division/1001/teams":
			fmt.Fprint(w, `{"teams":[
				{"name":"Spikers 13","alternate_identifier":"G13SPK1NC","final_finish":1},
				{"name":"No Id","alternate_identifier":null,"final_finish":2},
				{"name":"Unfinished","alternate_identifier":"G13UNF1NC","final_finish":null}]}`)
		case "/results/event-division/1002/teams":
			w.WriteHeader(http.StatusNotFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	a := New(source.NewFetcher(Name, source.FetcherConfig{}))
	a.baseURL = server.URL

	records, err := a.FetchStandings(context.Background(), "https://vbschedule.com/app/results/event/97/divisions")
	if err != nil {
		t.Fatalf("FetchStandings failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d: %+v", len(records), records)
	}

	got := records[0]
	if got.TeamName != "Spikers 13" || got.TeamCode != "G13SPK1NC" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.FinishLabel != "1 (13 Open)" || got.Finish != "1" || got.DivisionName != "13 Open" {
		t.Errorf("unexpected finish fields: %+v", got)
	}
	if got.EventName != "Harvest Cup" || got.EventDate != "2024-11-02" || got.EventID != "97" {
		t.Errorf("unexpected event fields: %+v", got)
	}
}

func TestFetchStandingsEventUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	a := New(source.NewFetcher(Name, source.FetcherConfig{}))
	a.baseURL = server.URL

	records, err := a.FetchStandings(context.Background(), "97")
	if !source.IsUnavailable(err) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
	if records != nil {
		t.Errorf("expected no records, got %+v", records)
	}
}

func TestParseEventID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"97", "97"},
		{"https://vbschedule.com/app/results/event/98/divisions", "98"},
		{"https://vbschedule.com/app/results/event/99", "99"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseEventID(tt.input); got != tt.expected {
				t.Errorf("ParseEventID(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
