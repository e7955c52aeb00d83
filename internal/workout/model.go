package workout

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the wire format of Record.Date: UTC with millisecond
// precision and a trailing Z, e.g. 2024-01-01T00:00:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// displayLayout mirrors how the table and detail header present a record date.
const displayLayout = "Mon Jan 02 2006 15:04:05 MST"

// Record represents a single logged exercise session.
//
// Date doubles as the key the service deletes by; there is no server-assigned
// identifier. ID is generated client-side and ignored by services that do not
// know it.
type Record struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date"`
	Exercise    string `json:"exercise"`
	Progression string `json:"progression"`
	Sets        Count  `json:"sets"`
	Reps        Count  `json:"reps"`
	Weight      Count  `json:"weight"`
	Difficulty  string `json:"difficulty"`
	Notes       string `json:"notes"`
}

// Form holds the raw add-workout input exactly as typed.
type Form struct {
	Exercise    string
	Progression string
	Sets        string
	Reps        string
	Weight      string
	Difficulty  string
	Notes       string
}

// Record builds the record to send for the form, stamping Date with now.
// Counts are parsed leniently and never rejected.
func (f Form) Record(now time.Time) Record {
	return Record{
		ID:          uuid.NewString(),
		Date:        Stamp(now),
		Exercise:    f.Exercise,
		Progression: f.Progression,
		Sets:        ParseCount(f.Sets),
		Reps:        ParseCount(f.Reps),
		Weight:      ParseCount(f.Weight),
		Difficulty:  f.Difficulty,
		Notes:       f.Notes,
	}
}

// Stamp formats t as a record date.
func Stamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp parses a record date. Any RFC 3339 value is accepted.
func ParseTimestamp(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

// NormalizeTimestamp rewrites an RFC 3339 value into TimestampLayout so two
// spellings of the same instant compare equal.
func NormalizeTimestamp(value string) (string, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return "", err
	}
	return Stamp(t), nil
}

// DisplayDate renders a record date in local time. Unparsable values are
// returned unchanged.
func DisplayDate(value string) string {
	t, err := ParseTimestamp(value)
	if err != nil {
		return value
	}
	return t.In(time.Local).Format(displayLayout)
}
