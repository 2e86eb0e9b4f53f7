package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"traderflow/pkg/common"
)

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// ParseDate parses a date in the 2006-01-02 layout. A trailing time component
// (as sent by some upstream versions) is ignored.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(common.DateLayout) {
		s = s[:len(common.DateLayout)]
	}
	t, err := time.Parse(common.DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(common.DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an optional inclusive calendar range. A nil bound is open.
type DateRange struct {
	Start *Date `json:"start_date,omitempty"`
	End   *Date `json:"end_date,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether d lies within the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	if r.Start != nil && d.Before(r.Start.Time) {
		return false
	}
	if r.End != nil && d.After(r.End.Time) {
		return false
	}
	return true
}

// ParseDateRange builds a range from optional start/end strings; empty strings leave a bound open.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		d, err := ParseDate(start)
		if err != nil {
			return DateRange{}, err
		}
		r.Start = &d
	}
	if end != "" {
		d, err := ParseDate(end)
		if err != nil {
			return DateRange{}, err
		}
		r.End = &d
	}
	if r.Start != nil && r.End != nil && r.End.Before(r.Start.Time) {
		return DateRange{}, fmt.Errorf("end date %s is before start date %s", r.End, r.Start)
	}
	return r, nil
}
