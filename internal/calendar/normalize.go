package calendar

import (
	"sort"
	"time"
)

const (
	DailyWindow  = 365
	WeeklyWindow = 52 * 7
)

// CanonicalDay is one date of a canonical sequence.
type CanonicalDay struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// Normalized is a gap-free ascending sequence covering the trailing window.
type Normalized struct {
	Days []CanonicalDay
	// Skipped counts keys that named no valid date.
	Skipped     int
	OutOfWindow int
}

func (n *Normalized) Start() Date {
	return n.Days[0].Date
}

func (n *Normalized) End() Date {
	return n.Days[len(n.Days)-1].Date
}

// Normalize lays raw onto the window [ref-windowDays+1, ref]. ref is reduced
// to its UTC calendar date. Keys resolving to the same date are summed, dates
// without a key get zero.
func Normalize(raw RawCalendar, ref time.Time, windowDays int) (*Normalized, error) {
	return NormalizeAt(raw, DateOf(ref), windowDays)
}

func NormalizeAt(raw RawCalendar, end Date, windowDays int) (*Normalized, error) {
	if windowDays < 1 {
		return nil, shapeError("window must cover at least one day", nil)
	}

	start := end.AddDays(1 - windowDays)
	out := &Normalized{Days: make([]CanonicalDay, windowDays)}
	for i := range out.Days {
		out.Days[i].Date = start.AddDays(i)
	}

	// sorted keys keep the reported error deterministic
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		count := raw[k]
		if count < 0 {
			return nil, integrityError(k, "negative count %d", count)
		}
		dk := ParseDayKey(k)
		if dk.Kind == KeyUnparseable {
			out.Skipped++
			continue
		}
		idx := int(dk.Date - start)
		if idx < 0 || idx >= windowDays {
			out.OutOfWindow++
			continue
		}
		out.Days[idx].Count += count
	}

	return out, nil
}
