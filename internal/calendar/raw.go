package calendar

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// maxTimestamp is 9999-12-31T23:59:59Z; larger numeric keys are not dates.
const maxTimestamp = 253402300799

// RawCalendar maps a day key (ISO date or Unix seconds) to an activity count.
type RawCalendar map[string]int

type KeyKind uint8

const (
	KeyUnparseable KeyKind = iota
	KeyDate
	KeyTimestamp
)

func (k KeyKind) String() string {
	switch k {
	case KeyDate:
		return "date"
	case KeyTimestamp:
		return "timestamp"
	default:
		return "unparseable"
	}
}

// DayKey is a raw key resolved to the calendar date it names.
type DayKey struct {
	Kind KeyKind
	Date Date
}

// ParseDayKey classifies a raw key. A key made only of digits is Unix seconds
// floored to its UTC day; anything else must be a YYYY-MM-DD date.
func ParseDayKey(key string) DayKey {
	k := strings.TrimSpace(key)
	if k == "" {
		return DayKey{}
	}
	if isDigits(k) {
		secs, err := strconv.ParseInt(k, 10, 64)
		if err != nil || secs > maxTimestamp {
			return DayKey{}
		}
		return DayKey{Kind: KeyTimestamp, Date: DateFromUnix(secs)}
	}
	d, err := ParseDate(k)
	if err != nil {
		return DayKey{}
	}
	return DayKey{Kind: KeyDate, Date: d}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

type rawRecord struct {
	Date  json.RawMessage `json:"date"`
	Count json.RawMessage `json:"count"`
}

// ParseRaw decodes a raw calendar in any of the shapes the platforms return:
// an object of key→count, an array of {date, count} records, or a JSON string
// wrapping either. Empty input and null decode to an empty calendar.
func ParseRaw(data []byte) (RawCalendar, error) {
	return parseRaw(data, true)
}

func parseRaw(data []byte, allowWrapped bool) (RawCalendar, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return RawCalendar{}, nil
	}

	switch data[0] {
	case '"':
		if !allowWrapped {
			return nil, shapeError("nested string calendar", nil)
		}
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, shapeError("invalid string calendar", err)
		}
		return parseRaw([]byte(inner), false)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, shapeError("invalid calendar object", err)
		}
		out := make(RawCalendar, len(obj))
		for key, val := range obj {
			n, err := parseCount(key, val)
			if err != nil {
				return nil, err
			}
			out[key] += n
		}
		return out, nil
	case '[':
		var records []rawRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, shapeError("invalid calendar records", err)
		}
		out := make(RawCalendar, len(records))
		for i, rec := range records {
			key, err := recordKey(rec.Date)
			if err != nil {
				return nil, shapeError("record "+strconv.Itoa(i), err)
			}
			n, err := parseCount(key, rec.Count)
			if err != nil {
				return nil, err
			}
			out[key] += n
		}
		return out, nil
	default:
		return nil, shapeError("calendar must be an object, an array or a string", nil)
	}
}

func recordKey(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", shapeError("missing date", nil)
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", shapeError("date must be a string or a number", err)
	}
	return n.String(), nil
}

func parseCount(key string, raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, shapeError("missing count for key "+strconv.Quote(key), nil)
	}

	var n int64
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, shapeError("invalid count for key "+strconv.Quote(key), err)
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(s))
		if err != nil {
			return 0, shapeError("count for key "+strconv.Quote(key)+" is not numeric", err)
		}
		if f != float64(int64(f)) {
			return 0, integrityError(key, "count %q is not an integer", s)
		}
		n = int64(f)
	case c == '-' || (c >= '0' && c <= '9'):
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return 0, shapeError("invalid count for key "+strconv.Quote(key), err)
		}
		v, err := num.Int64()
		if err != nil {
			f, ferr := num.Float64()
			if ferr != nil || f != float64(int64(f)) {
				return 0, integrityError(key, "count %s is not an integer", num)
			}
			v = int64(f)
		}
		n = v
	default:
		return 0, shapeError("count for key "+strconv.Quote(key)+" is not numeric", nil)
	}

	if n < 0 {
		return 0, integrityError(key, "negative count %d", n)
	}
	return int(n), nil
}

// Merge sums several calendars key by key. Keys naming the same day in
// different formats stay separate here and are summed by Normalize.
func Merge(cals ...RawCalendar) RawCalendar {
	out := make(RawCalendar)
	for _, c := range cals {
		for k, v := range c {
			out[k] += v
		}
	}
	return out
}

// ToRaw turns a canonical sequence back into an ISO-keyed calendar.
func ToRaw(days []CanonicalDay) RawCalendar {
	out := make(RawCalendar, len(days))
	for _, d := range days {
		if d.Count == 0 {
			continue
		}
		out[d.Date.String()] += d.Count
	}
	return out
}
