package pivot

import (
	"sort"

	"github.com/rcski77/aes-results-scraping/internal/teamkey"
)

// RosterFilter is an allow-list of team keys. A nil filter keeps every team;
// an empty non-nil filter keeps none.
type RosterFilter map[teamkey.Key]struct{}

// Contains reports whether key is allowed
func (f RosterFilter) Contains(key teamkey.Key) bool {
	if f == nil {
		return true
	}
	_, ok := f[key]
	return ok
}

// Row is one team in a WideTable. Cells line up with WideTable.Columns.
type Row struct {
	Key         teamkey.Key
	DisplayName string
	Cells       []string
}

// WideTable has one row per team and one column per event
type WideTable struct {
	Columns []string
	Rows    []Row
}

// BuildWideTable pivots entries into a WideTable. Columns follow eventNames;
// events found on entries but missing from eventNames are appended in the
// order they are met. Rows keep entry order and, when roster is non-nil, only
// entries whose key is in roster survive.
func BuildWideTable(entries []*TeamEntry, eventNames []string, roster RosterFilter) *WideTable {
	columns := make([]string, 0, len(eventNames))
	position := make(map[string]int, len(eventNames))
	addColumn := func(name string) {
		if _, ok := position[name]; ok {
			return
		}
		position[name] = len(columns)
		columns = append(columns, name)
	}

	for _, name := range eventNames {
		addColumn(name)
	}
	for _, e := range entries {
		for _, name := range eventOrder(e) {
			addColumn(name)
		}
	}

	table := &WideTable{Columns: columns, Rows: []Row{}}
	for _, e := range entries {
		if !roster.Contains(e.Key) {
			continue
		}
		cells := make([]string, len(columns))
		for i, name := range columns {
			cells[i] = e.Events[name]
		}
		table.Rows = append(table.Rows, Row{
			Key:         e.Key,
			DisplayName: e.DisplayName,
			Cells:       cells,
		})
	}
	return table
}

// eventOrder returns the entry's events in insertion order. Events set
// directly on the map without going through an Aggregator follow, sorted.
func eventOrder(e *TeamEntry) []string {
	if len(e.order) == len(e.Events) {
		return e.order
	}
	names := append([]string(nil), e.order...)
	known := make(map[string]struct{}, len(e.order))
	for _, name := range e.order {
		known[name] = struct{}{}
	}
	var extra []string
	for name := range e.Events {
		if _, ok := known[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
