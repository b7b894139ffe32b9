package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rcski77/aes-results-scraping/internal/logger"
	"github.com/rcski77/aes-results-scraping/internal/standing"
)

// ErrParseFailure marks a response body that could not be decoded
var ErrParseFailure = errors.New("parse failure")

// Adapter fetches the standings of one event from one results service
type Adapter interface {
	// Name identifies the adapter in configuration and diagnostics
	Name() string

	// FetchStandings returns the records of every division that could be
	// loaded. An error means the event itself was unavailable.
	FetchStandings(ctx context.Context, eventID string) ([]standing.Record, error)
}

// UnavailableError reports a request that failed with a non-success status
// or never got a response.
type UnavailableError struct {
	Source     string
	URL        string
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned status %d", e.Source, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s unavailable: %v", e.Source, e.URL, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is or wraps an UnavailableError
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// FlexString decodes JSON strings, numbers and booleans as text and null as
// the empty string. Results services are inconsistent about rank and code
// types.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	*s = FlexString(b)
	return nil
}

// String returns the decoded text
func (s FlexString) String() string {
	return string(s)
}

// Clean drops malformed records produced by the named source, logging each
// one at debug level.
func Clean(source string, records []standing.Record) []standing.Record {
	kept, dropped := standing.Clean(records)
	for _, err := range dropped {
		logger.IncrCounter("records.dropped")
		logger.Debug("Dropping record", logger.Fields{"source": source, "reason": err.Error()})
	}
	return kept
}

// NormalizeFinish trims a reported rank and treats "None" and "null"
// placeholders as missing.
func NormalizeFinish(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") || strings.EqualFold(s, "null") {
		return ""
	}
	return s
}
