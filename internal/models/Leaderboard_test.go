package models

import (
	"streakd/internal/calendar"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, current, longest, total int) LeaderboardEntry {
	return LeaderboardEntry{
		Subject: Subject{ID: id},
		Streak:  calendar.StreakResult{CurrentStreak: current, LongestStreak: longest, TotalActivity: total},
	}
}

func ids(entries []LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Subject.ID
	}
	return out
}

func TestParseLeaderboardSort(t *testing.T) {
	s, err := ParseLeaderboardSort("")
	require.NoError(t, err)
	assert.Equal(t, SortByTotal, s)

	s, err = ParseLeaderboardSort("longest")
	require.NoError(t, err)
	assert.Equal(t, SortByLongest, s)

	_, err = ParseLeaderboardSort("name")
	assert.Error(t, err)
}

func TestSortLeaderboard_ByTotal(t *testing.T) {
	entries := []LeaderboardEntry{
		entry("a", 1, 1, 5),
		entry("b", 3, 3, 20),
		entry("c", 0, 2, 12),
	}
	SortLeaderboard(entries, SortByTotal)
	assert.Equal(t, []string{"b", "c", "a"}, ids(entries))
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestSortLeaderboard_ByCurrentBreaksTiesOnLongest(t *testing.T) {
	entries := []LeaderboardEntry{
		entry("a", 2, 2, 5),
		entry("b", 2, 9, 5),
		entry("c", 4, 4, 1),
	}
	SortLeaderboard(entries, SortByCurrent)
	assert.Equal(t, []string{"c", "b", "a"}, ids(entries))
}

func TestSortLeaderboard_EqualStatsShareRank(t *testing.T) {
	entries := []LeaderboardEntry{
		entry("z", 1, 1, 3),
		entry("m", 1, 1, 3),
		entry("a", 0, 0, 0),
	}
	SortLeaderboard(entries, SortByLongest)
	assert.Equal(t, []string{"m", "z", "a"}, ids(entries))
	assert.Equal(t, []int{1, 1, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}
