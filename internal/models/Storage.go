package models

import (
	"streakd/internal/calendar"
	"time"
)

const SnapshotVersion = 1

// StreakRecord is the last computed result for a subject.
type StreakRecord struct {
	Result     calendar.StreakResult `json:"result"`
	Reference  calendar.Date         `json:"reference"`
	ComputedAt time.Time             `json:"computed_at"`
}

type SubjectData struct {
	Subject    Subject                           `json:"subject"`
	Calendars  map[Platform]calendar.RawCalendar `json:"calendars"`
	FetchedAt  map[Platform]time.Time            `json:"fetched_at"`
	History    *ActivityHistory                  `json:"history,omitempty"`
	LastResult *StreakRecord                     `json:"last_result,omitempty"`
}

// Snapshot is the persisted state of all subjects.
type Snapshot struct {
	Version  int                     `json:"version"`
	Subjects map[string]*SubjectData `json:"subjects"`
}
