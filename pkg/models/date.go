package models

import (
	"database/sql/driver"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// DateLayout is the layout dates are stored and serialized with.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. It's stored as
// YYYY-MM-DD text so that dates sort lexically.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Anything else, including the empty
// string, returns nil.
func ParseDate(s string) *Date {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &Date{t}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.WithStack(err)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return errors.WithStack(err)
	}
	d.Time = t
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return errors.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) parse(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return errors.WithStack(err)
	}
	d.Time = t
	return nil
}
