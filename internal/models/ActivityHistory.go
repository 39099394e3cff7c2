package models

import (
	"fmt"
	"streakd/internal/calendar"

	"github.com/RoaringBitmap/roaring/v2"
	json "github.com/goccy/go-json"
)

// ActivityHistory accumulates every active date ever observed for a subject,
// so the all-time view survives platforms that only return the last year.
// Dates before 1970 are not recorded.
type ActivityHistory struct {
	days *roaring.Bitmap
}

type HistorySummary struct {
	ActiveDays    int            `json:"activeDays"`
	FirstActive   *calendar.Date `json:"firstActive,omitempty"`
	LastActive    *calendar.Date `json:"lastActive,omitempty"`
	LongestStreak int            `json:"longestStreak"`
}

func NewActivityHistory() *ActivityHistory {
	return &ActivityHistory{days: roaring.New()}
}

// Record adds the active days of raw and returns how many were new.
func (h *ActivityHistory) Record(raw calendar.RawCalendar) int {
	before := h.days.GetCardinality()
	for k, v := range raw {
		if v <= 0 {
			continue
		}
		key := calendar.ParseDayKey(k)
		if key.Kind == calendar.KeyUnparseable || key.Date < 0 {
			continue
		}
		h.days.Add(uint32(key.Date))
	}
	return int(h.days.GetCardinality() - before)
}

func (h *ActivityHistory) Contains(d calendar.Date) bool {
	return d >= 0 && h.days.Contains(uint32(d))
}

func (h *ActivityHistory) Len() int {
	return int(h.days.GetCardinality())
}

func (h *ActivityHistory) Summary() HistorySummary {
	var s HistorySummary
	if h.days.IsEmpty() {
		return s
	}
	first, last := calendar.Date(h.days.Minimum()), calendar.Date(h.days.Maximum())
	s.FirstActive, s.LastActive = &first, &last
	s.ActiveDays = h.Len()

	days := make([]calendar.CanonicalDay, 0, s.ActiveDays)
	it := h.days.Iterator()
	for it.HasNext() {
		days = append(days, calendar.CanonicalDay{Date: calendar.Date(it.Next()), Count: 1})
	}
	// ascending positive counts cannot fail
	if res, err := calendar.StreaksAt(days, last); err == nil {
		s.LongestStreak = res.LongestStreak
	}
	return s
}

func (h *ActivityHistory) Clone() *ActivityHistory {
	return &ActivityHistory{days: h.days.Clone()}
}

func (h *ActivityHistory) MarshalJSON() ([]byte, error) {
	buf, err := h.days.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(buf)
}

func (h *ActivityHistory) UnmarshalJSON(data []byte) error {
	var buf []byte
	if err := json.Unmarshal(data, &buf); err != nil {
		return err
	}
	bm := roaring.New()
	if len(buf) > 0 {
		if err := bm.UnmarshalBinary(buf); err != nil {
			return fmt.Errorf("roaring unmarshal: %w", err)
		}
	}
	h.days = bm
	return nil
}
