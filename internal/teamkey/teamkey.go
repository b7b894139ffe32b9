package teamkey

import (
	"regexp"
	"strconv"
	"strings"
)

// Key is a canonical, lower-cased team code used as the join key across
// sources and events.
type Key string

// String returns the key as a plain string
func (k Key) String() string {
	return string(k)
}

// emptyCodes are placeholder values some sources emit instead of omitting
// the code.
var emptyCodes = map[string]bool{
	"":     true,
	"none": true,
	"null": true,
}

// shiftPattern splits a code into letter prefix, whole digit run and a
// non-empty suffix that starts with a non-digit
var shiftPattern = regexp.MustCompile(`^([a-z]+)([0-9]+)([^0-9].*)$`)

// IsEmpty reports whether raw is blank or one of the "None"/"null" sentinels.
func IsEmpty(raw string) bool {
	return emptyCodes[strings.ToLower(strings.TrimSpace(raw))]
}

// Normalize returns the canonical key for a raw team code.
//
// The code is trimmed and lower-cased. When shiftYear is set, a code of the
// form letters+digits+rest has its digit run incremented by one and rendered
// without zero padding ("g09abc" becomes "g10abc"). Codes of any other shape
// are returned lower-cased but otherwise unchanged.
//
// Callers filter sentinel codes with IsEmpty first.
func Normalize(raw string, shiftYear bool) Key {
	code := strings.ToLower(strings.TrimSpace(raw))
	if !shiftYear {
		return Key(code)
	}
	return Key(shift(code))
}

// shift increments the digit run of a lower-cased code
func shift(code string) string {
	m := shiftPattern.FindStringSubmatch(code)
	if m == nil {
		return code
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		// digit run too long for an int
		return code
	}
	return m[1] + strconv.Itoa(n+1) + m[3]
}
