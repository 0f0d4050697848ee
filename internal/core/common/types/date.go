package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	DateLayout,
}

// ParseTime accepts RFC 3339, naive ISO timestamps and plain dates. Naive
// values are read as UTC. dateOnly reports whether the input had no time part.
func ParseTime(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), layout == DateLayout, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid date or time %q", s)
}

// Date is a calendar day without a time of day or zone.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, _, err := ParseTime(s)
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	}
	return fmt.Errorf("failed to scan Date from %T", value)
}

func (d *Date) scanString(s string) error {
	t, _, err := ParseTime(s)
	if err != nil {
		return err
	}
	*d = DateOf(t)
	return nil
}

// DateTime is a point in time that accepts the same loose input formats as
// ParseTime and always serializes as RFC 3339 in UTC.
type DateTime struct {
	time.Time
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(dt.UTC().Format(time.RFC3339))
}

func (dt *DateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("datetime must be a string: %w", err)
	}
	t, _, err := ParseTime(s)
	if err != nil {
		return err
	}
	dt.Time = t
	return nil
}
