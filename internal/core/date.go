// Package core holds the bookkeeping domain: members, donations,
// expenses and the value types they share. All amounts are whole won
// (KRW has no minor unit) and all calendar dates are day-precision.
package core

import (
	"strconv"
	"strings"
	"time"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

// Date is a day-precision calendar date. It serializes as
// "YYYY-MM-DD" and tolerates RFC 3339 timestamps on input, keeping
// only the date part.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// Month returns the month as 1..12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// String renders the wire format.
func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool { return d.Time.After(other.Time) }

// Equal reports whether both dates name the same day.
func (d Date) Equal(other Date) bool { return d.Time.Equal(other.Time) }

// MarshalJSON renders the date as a "YYYY-MM-DD" JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" strings, plus full RFC 3339
// timestamps from older documents.
func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return ErrInvalidDate
	}
	if len(s) > len(dateLayout) {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			*d = DateOf(t)
			return nil
		}
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseID canonicalizes a record identifier. Identifiers travel as
// JSON numbers in the documents but arrive as strings from URLs and
// form fields; everything downstream compares int64 only.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
