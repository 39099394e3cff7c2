package models

import (
	"streakd/internal/calendar"
	"time"
)

type PlatformSummary struct {
	Platform  Platform              `json:"platform"`
	Streak    calendar.StreakResult `json:"streak"`
	Skipped   int                   `json:"skippedKeys"`
	FetchedAt time.Time             `json:"fetchedAt"`
	Error     string                `json:"error,omitempty"`
}

type Profile struct {
	Subject   Subject           `json:"subject"`
	Report    *calendar.Report  `json:"report"`
	Platforms []PlatformSummary `json:"platforms"`
	History   HistorySummary    `json:"history"`
}
