package output

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/rcski77/aes-results-scraping/internal/standing"
)

// DefaultMaxRows is the largest file the club rankings importer accepts
const DefaultMaxRows = 400

var unsafeFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// clubRow is one line of a club rankings import file
type clubRow struct {
	DivisionName string `csv:"DivisionName"`
	Finish       string `csv:"Finish"`
	TeamName     string `csv:"TeamName"`
	TeamCode     string `csv:"TeamCode"`
}

// SanitizeFileName removes characters that are not allowed in file names
func SanitizeFileName(name string) string {
	return strings.TrimSpace(unsafeFileChars.ReplaceAllString(name, ""))
}

// ExportFileName names the import file for one event. part is 1-based; zero
// means the event fits in a single file.
func ExportFileName(eventDate, eventName, eventID string, part int) string {
	if eventDate == "" {
		eventDate = "Unknown_Date"
	}
	name := fmt.Sprintf("%s_%s_%s_standings", eventDate, SanitizeFileName(eventName), SanitizeFileName(eventID))
	if part > 0 {
		name += fmt.Sprintf("_part%d", part)
	}
	return name + ".csv"
}

// SplitByDivision cuts records into chunks of at most maxRows without
// splitting a run of records that share a division. A division larger than
// maxRows becomes a chunk of its own.
func SplitByDivision(records []standing.Record, maxRows int) [][]standing.Record {
	if len(records) == 0 {
		return nil
	}
	if maxRows <= 0 || len(records) <= maxRows {
		return [][]standing.Record{records}
	}

	var chunks [][]standing.Record
	start := 0
	for start < len(records) {
		end := start
		for end < len(records) {
			next := divisionEnd(records, end)
			if next-start > maxRows && end > start {
				break
			}
			end = next
			if end-start >= maxRows {
				break
			}
		}
		chunks = append(chunks, records[start:end])
		start = end
	}
	return chunks
}

// divisionEnd returns the index just past the division run starting at i
func divisionEnd(records []standing.Record, i int) int {
	div := records[i].DivisionName
	j := i + 1
	for j < len(records) && records[j].DivisionName == div {
		j++
	}
	return j
}

// GroupByEvent splits records by event id, keeping the order in which the
// events first appear.
func GroupByEvent(records []standing.Record) [][]standing.Record {
	var order []string
	groups := make(map[string][]standing.Record)
	for _, r := range records {
		if _, ok := groups[r.EventID]; !ok {
			order = append(order, r.EventID)
		}
		groups[r.EventID] = append(groups[r.EventID], r)
	}

	out := make([][]standing.Record, 0, len(order))
	for _, id := range order {
		out = append(out, groups[id])
	}
	return out
}

// WriteClubExport writes the club rankings import files for one event's
// records and returns their paths. Files have no header row.
func (d *Dir) WriteClubExport(records []standing.Record, maxRows int) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	first := records[0]

	chunks := SplitByDivision(records, maxRows)
	paths := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		part := 0
		if len(chunks) > 1 {
			part = i + 1
		}

		rows := make([]clubRow, 0, len(chunk))
		for _, r := range chunk {
			rows = append(rows, clubRow{
				DivisionName: r.DivisionName,
				Finish:       r.Finish,
				TeamName:     r.TeamName,
				TeamCode:     strings.ToLower(strings.TrimSpace(r.TeamCode)),
			})
		}

		name := ExportFileName(first.EventDate, first.EventName, first.EventID, part)
		path, err := d.writeFile(name, func(f *os.File) error {
			return gocsv.MarshalWithoutHeaders(&rows, f)
		})
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
