package model

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format for score timestamps: day/month/year
// with an unpadded month, minute precision.
const DateTimeLayout = "02/1/2006 15:04"

// DateTime is a minute-precision timestamp. It marshals to and from the
// DateTimeLayout string form and truncates to the minute on every
// construction path, so equality and range comparisons are stable.
type DateTime struct {
	time.Time
}

// NewDateTime returns t truncated to minute precision.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t.Truncate(time.Minute)}
}

// ParseDateTime parses s in DateTimeLayout.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid date/time %q: %w", s, err)
	}
	return NewDateTime(t), nil
}

// MarshalJSON renders the timestamp in DateTimeLayout.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

// UnmarshalJSON parses a DateTimeLayout string.
func (d *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
