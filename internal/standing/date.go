package standing

import (
	"strings"
	"time"
)

// DateLayout is the format of Record.EventDate
const DateLayout = "2006-01-02"

// dateLayouts are the event start date formats the result sites return
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"Jan 02 2006",
	"Jan 2 2006",
	"January 2, 2006",
}

// ParseDate parses an event start date.
// Returns time.Time{} (zero value) if no known layout matches.
func ParseDate(dateText string) time.Time {
	dateText = strings.TrimSpace(dateText)
	if dateText == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateText); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NormalizeDate rewrites a start date as YYYY-MM-DD. Dates that cannot be
// parsed are returned trimmed but otherwise unchanged.
func NormalizeDate(dateText string) string {
	t := ParseDate(dateText)
	if t.IsZero() {
		return strings.TrimSpace(dateText)
	}
	return t.Format(DateLayout)
}
