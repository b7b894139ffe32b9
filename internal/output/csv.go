package output

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/rcski77/aes-results-scraping/internal/pivot"
	"github.com/rcski77/aes-results-scraping/internal/roster"
	"github.com/rcski77/aes-results-scraping/internal/standing"
)

const (
	KeyColumn         = "team_code"
	DisplayNameColumn = "display_name"
)

// WideOptions controls the wide table layout
type WideOptions struct {
	// Header writes the column names as the first row
	Header bool
	// IncludeKey adds the team key as the first column
	IncludeKey bool
}

// WriteWideCSV writes table as CSV. Rows are written in table order with one
// cell per column; missing finishes are empty cells.
func WriteWideCSV(w io.Writer, table *pivot.WideTable, opts WideOptions) error {
	cw := gocsv.DefaultCSVWriter(w)

	if opts.Header {
		header := make([]string, 0, len(table.Columns)+2)
		if opts.IncludeKey {
			header = append(header, KeyColumn)
		}
		header = append(header, DisplayNameColumn)
		header = append(header, table.Columns...)
		if err := cw.Write(header); err != nil {
			return err
		}
	}

	for _, row := range table.Rows {
		line := make([]string, 0, len(row.Cells)+2)
		if opts.IncludeKey {
			line = append(line, row.Key.String())
		}
		line = append(line, row.DisplayName)
		line = append(line, row.Cells...)
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteWide writes table to name and returns the file path
func (d *Dir) WriteWide(name string, table *pivot.WideTable, opts WideOptions) (string, error) {
	return d.writeFile(name, func(f *os.File) error {
		return WriteWideCSV(f, table, opts)
	})
}

// WriteLong writes records in long format, one row per team finish
func (d *Dir) WriteLong(name string, records []standing.Record) (string, error) {
	if records == nil {
		records = []standing.Record{}
	}
	return d.writeFile(name, func(f *os.File) error {
		return gocsv.Marshal(&records, f)
	})
}

// WriteRoster writes a Jacker team list
func (d *Dir) WriteRoster(name string, teams []roster.Team) (string, error) {
	if teams == nil {
		teams = []roster.Team{}
	}
	return d.writeFile(name, func(f *os.File) error {
		return gocsv.Marshal(&teams, f)
	})
}

// WriteRegistrations writes parsed Jacker registrations
func (d *Dir) WriteRegistrations(name string, regs []roster.Registration) (string, error) {
	if regs == nil {
		regs = []roster.Registration{}
	}
	return d.writeFile(name, func(f *os.File) error {
		return gocsv.Marshal(&regs, f)
	})
}
