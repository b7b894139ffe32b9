package aes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rcski77/aes-results-scraping/internal/source"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	a := New(source.NewFetcher(Name, source.FetcherConfig{}))
	a.baseURL = server.URL
	return a
}

func TestFetchStandings(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/event/EVT1":
			fmt.Fprint(w, `{"Name":"Spring Classic","StartDate":"2024-03-02T00:00:00","Divisions":[
				{"DivisionId":11,"Name":"14 Open"},
				{"DivisionId":12,"Name":"15 Club"}]}`)
		case "/odata/EVT1/standings(dId=11,cId=null,tIds=[])":
			if got := r.URL.Query().Get("$orderby"); got != "OverallRank,FinishRank,TeamName,TeamCode" {
				t.Errorf("unexpected $orderby %q", got)
			}
			fmt.Fprint(w, `{"value":[
				{"TeamName":"Team One","TeamCode":"G14ABC1NT","FinishRank":1,"Division":{"Name":"14 Open"}},
				{"TeamName":"","TeamText":"Team Two","TeamCode":"g14xyz2nt","FinishRank":"2","Division":{"Name":""}},
				{"TeamName":"No Code","TeamCode":null,"FinishRank":3,"Division":{"Name":"14 Open"}},
				{"TeamName":"No Finish","TeamCode":"g14nf1","FinishRank":null,"Division":{"Name":"14 Open"}}]}`)
		case "/odata/EVT1/standings(dId=12,cId=null,tIds=[])":
			fmt.Fprint(w, `{"value":[
				{"TeamName":"Team Three","TeamCode":"G15TTT1","FinishRank":"None","Division":{"Name":"15 Club"}},
				{"TeamName":"Team Four","TeamCode":"G15FFF1","FinishRank":4,"Division":{"Name":"15 Club"}}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	records, err := a.FetchStandings(context.Background(), "EVT1")
	if err != nil {
		t.Fatalf("FetchStandings failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}

	first := records[0]
	if first.TeamName != "Team One" || first.TeamCode != "G14ABC1NT" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.FinishLabel != "1 (14 Open)" {
		t.Errorf("expected label '1 (14 Open)', got %q", first.FinishLabel)
	}
	if first.EventName != "Spring Classic" || first.EventDate != "2024-03-02" || first.EventID != "EVT1" {
		t.Errorf("unexpected event fields: %+v", first)
	}
	if first.Source != Name {
		t.Errorf("expected source %q, got %q", Name, first.Source)
	}

	// TeamText fallback and division name from the event document
	second := records[1]
	if second.TeamName != "Team Two" {
		t.Errorf("expected TeamText fallback 'Team Two', got %q", second.TeamName)
	}
	if second.FinishLabel != "2 (14 Open)" {
		t.Errorf("expected label '2 (14 Open)', got %q", second.FinishLabel)
	}

	if records[2].TeamName != "Team Four" || records[2].FinishLabel != "4 (15 Club)" {
		t.Errorf("unexpected third record: %+v", records[2])
	}
}

func TestFetchStandingsSkipsFailedDivision(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/event/EVT2":
			fmt.Fprint(w, `{"Name":"Fall Fest","Divisions":[{"DivisionId":1,"Name":"A"},{"DivisionId":2,"Name":"B"}]}`)
		case "/odata/EVT2/standings(dId=1,cId=null,tIds=[])":
			w.WriteHeader(http.StatusForbidden)
		case "/odata/EVT2/standings(dId=2,cId=null,tIds=[])":
			fmt.Fprint(w, `{"value":[{"TeamName":"Kept","TeamCode":"k1","FinishRank":1}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	records, err := a.FetchStandings(context.Background(), "EVT2")
	if err != nil {
		t.Fatalf("FetchStandings failed: %v", err)
	}
	if len(records) != 1 || records[0].TeamName != "Kept" {
		t.Fatalf("expected only the second division's record, got %+v", records)
	}
	if records[0].FinishLabel != "1 (B)" {
		t.Errorf("expected label '1 (B)', got %q", records[0].FinishLabel)
	}
}

func TestFetchStandingsEventUnavailable(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := a.FetchStandings(context.Background(), "MISSING")
	if err == nil {
		t.Fatal("expected error for missing event")
	}

	var ue *source.UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnavailableError, got %T: %v", err, err)
	}
	if ue.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", ue.StatusCode)
	}
}

func TestFetchStandingsEventUndecodable(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})

	_, err := a.FetchStandings(context.Background(), "BROKEN")
	if !errors.Is(err, source.ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}

func TestFetchStandingsDefaultEventName(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/event/E9":
			fmt.Fprint(w, `{"Divisions":[{"DivisionId":5,"Name":"16s"}]}`)
		default:
			fmt.Fprint(w, `{"value":[{"TeamName":"T","TeamCode":"c1","FinishRank":2}]}`)
		}
	})

	records, err := a.FetchStandings(context.Background(), "E9")
	if err != nil {
		t.Fatalf("FetchStandings failed: %v", err)
	}
	if len(records) != 1 || records[0].EventName != "Event_E9" {
		t.Fatalf("expected placeholder event name, got %+v", records)
	}
}

func TestParseEventID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PTAwMDAwMzY3NDY90", "PTAwMDAwMzY3NDY90"},
		{"  PTAwMDAwMzY3NDY90 ", "PTAwMDAwMzY3NDY90"},
		{"https://results.advancedeventsystems.com/event/PTAwMDAwMzY3NDY90", "PTAwMDAwMzY3NDY90"},
		{"https://results.advancedeventsystems.com/event/PTAwMDAwMzY3NDY90/", "PTAwMDAwMzY3NDY90"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseEventID(tt.input); got != tt.expected {
				t.Errorf("ParseEventID(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
