package calendar

import (
	"fmt"
	"time"
)

const (
	isoLayout  = "2006-01-02"
	secondsDay = 24 * 60 * 60
)

// Date is a calendar date without a time component, counted in days since
// 1970-01-01 UTC.
type Date int32

func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date(floorDiv(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix(), secondsDay))
}

func DateFromUnix(seconds int64) Date {
	return Date(floorDiv(seconds, secondsDay))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return 0, err
	}
	return DateOf(t), nil
}

func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Time() time.Time {
	return time.Unix(int64(d)*secondsDay, 0).UTC()
}

func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) String() string {
	return d.Time().Format(isoLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", b, err)
	}
	*d = parsed
	return nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
