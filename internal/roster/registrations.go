package roster

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rcski77/aes-results-scraping/internal/source"
)

// Registration statuses, one per table on the registrations page
const (
	StatusConfirmed = "Confirmed"
	StatusPending   = "Pending"
	StatusDeleted   = "Deleted"
)

var teamIDPattern = regexp.MustCompile(`^(.*)\((\d+)\)$`)

// Registration is one row of a registrations table
type Registration struct {
	RegNumber string `csv:"Reg #"`
	TeamName  string `csv:"Team Name"`
	TeamID    string `csv:"Team ID"`
	Coach     string `csv:"Coach"`
	Product   string `csv:"Product"`
	Division  string `csv:"Division Sold"`
	Date      string `csv:"Date"`
	Status    string `csv:"Status"`
}

// ParseRegistrations reads the confirmed, pending and deleted tables of a
// registrations page, in that order. A missing table contributes no rows.
func ParseRegistrations(r io.Reader, jackerID string) ([]Registration, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing registrations: %v", source.ErrParseFailure, err)
	}

	var regs []Registration
	regs = append(regs, parseSection(doc, "ConfirmedRegistrations-"+jackerID, StatusConfirmed)...)
	regs = append(regs, parseSection(doc, "PendingRegistrations-"+jackerID, StatusPending)...)
	regs = append(regs, parseSection(doc, "DeletedRegistrations-"+jackerID, StatusDeleted)...)
	return regs, nil
}

// parseSection reads the table inside div#sectionID. The deleted table has a
// leading action column and a trailing date column.
func parseSection(doc *goquery.Document, sectionID, status string) []Registration {
	table := doc.Find(fmt.Sprintf("div[id=%q] table", sectionID)).First()

	offset := 0
	if status == StatusDeleted {
		offset = 1
	}

	var regs []Registration
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		cols := tr.Find("td")
		if cols.Length() < 6 {
			return
		}
		text := func(n int) string {
			return strings.TrimSpace(cols.Eq(n).Text())
		}

		name, id := SplitTeamID(text(1 + offset))
		reg := Registration{
			RegNumber: text(0 + offset),
			TeamName:  name,
			TeamID:    id,
			Coach:     text(2 + offset),
			Product:   text(3 + offset),
			Division:  text(4 + offset),
			Status:    status,
		}
		if status == StatusDeleted && cols.Length() > 6 {
			reg.Date = text(6)
		}
		regs = append(regs, reg)
	})
	return regs
}

// SplitTeamID splits "Team Name (123456)" into name and id. Text without a
// trailing numeric id is returned whole with an empty id.
func SplitTeamID(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if m := teamIDPattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return raw, ""
}
