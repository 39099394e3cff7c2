package models

import (
	"fmt"
	"sort"
	"streakd/internal/calendar"
)

type LeaderboardSort string

const (
	SortByTotal   LeaderboardSort = "total"
	SortByCurrent LeaderboardSort = "current"
	SortByLongest LeaderboardSort = "longest"
)

func ParseLeaderboardSort(s string) (LeaderboardSort, error) {
	switch LeaderboardSort(s) {
	case "":
		return SortByTotal, nil
	case SortByTotal, SortByCurrent, SortByLongest:
		return LeaderboardSort(s), nil
	}
	return "", fmt.Errorf("unknown sort %q", s)
}

type LeaderboardEntry struct {
	Rank    int                   `json:"rank"`
	Subject Subject               `json:"subject"`
	Streak  calendar.StreakResult `json:"streak"`
	Error   string                `json:"error,omitempty"`
}

func (by LeaderboardSort) keys(r calendar.StreakResult) [3]int {
	switch by {
	case SortByCurrent:
		return [3]int{r.CurrentStreak, r.LongestStreak, r.TotalActivity}
	case SortByLongest:
		return [3]int{r.LongestStreak, r.CurrentStreak, r.TotalActivity}
	default:
		return [3]int{r.TotalActivity, r.CurrentStreak, r.LongestStreak}
	}
}

// SortLeaderboard orders entries best first and assigns ranks. Entries with
// equal statistics share a rank and are ordered by subject id.
func SortLeaderboard(entries []LeaderboardEntry, by LeaderboardSort) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := by.keys(entries[i].Streak), by.keys(entries[j].Streak)
		for k := range a {
			if a[k] != b[k] {
				return a[k] > b[k]
			}
		}
		return entries[i].Subject.ID < entries[j].Subject.ID
	})
	for i := range entries {
		if i > 0 && by.keys(entries[i].Streak) == by.keys(entries[i-1].Streak) {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
