package models

import (
	"fmt"
	"streakd/internal/calendar"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSubjectStore_PutAndGet(t *testing.T) {
	s := NewSubjectStore()
	assert.True(t, s.Put(Subject{ID: "alice", Name: "Alice"}))
	assert.False(t, s.Put(Subject{ID: "alice", Name: "Alice B."}))

	sub, ok := s.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "Alice B.", sub.Name)
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get("bob")
	assert.False(t, ok)
}

func TestSubjectStore_ListIsOrdered(t *testing.T) {
	s := NewSubjectStore()
	s.Put(Subject{ID: "carol"})
	s.Put(Subject{ID: "alice"})
	s.Put(Subject{ID: "bob"})

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alice", list[0].ID)
	assert.Equal(t, "carol", list[2].ID)
}

func TestSubjectStore_SetCalendarUnknownSubject(t *testing.T) {
	s := NewSubjectStore()
	assert.False(t, s.SetCalendar("ghost", PlatformGitHub, calendar.RawCalendar{}, fetchedAt))
}

func TestSubjectStore_CalendarsReturnCopies(t *testing.T) {
	s := NewSubjectStore()
	s.Put(Subject{ID: "alice"})
	raw := calendar.RawCalendar{"2024-03-01": 2}
	require.True(t, s.SetCalendar("alice", PlatformLeetCode, raw, fetchedAt))
	raw["2024-03-01"] = 99

	cals, times, ok := s.Calendars("alice")
	require.True(t, ok)
	assert.Equal(t, 2, cals[PlatformLeetCode]["2024-03-01"])
	assert.Equal(t, fetchedAt, times[PlatformLeetCode])

	cals[PlatformLeetCode]["2024-03-01"] = 0
	again, _, _ := s.Calendars("alice")
	assert.Equal(t, 2, again[PlatformLeetCode]["2024-03-01"])
}

func TestSubjectStore_SetCalendarDropsResult(t *testing.T) {
	s := NewSubjectStore()
	s.Put(Subject{ID: "alice"})
	require.True(t, s.SetResult("alice", StreakRecord{Result: calendar.StreakResult{TotalActivity: 3}}))

	_, ok := s.Result("alice")
	require.True(t, ok)

	s.SetCalendar("alice", PlatformGitHub, calendar.RawCalendar{"2024-03-01": 1}, fetchedAt)
	_, ok = s.Result("alice")
	assert.False(t, ok)

	h, ok := s.History("alice")
	require.True(t, ok)
	assert.Equal(t, 1, h.ActiveDays)
}

func TestSubjectStore_SnapshotRoundtrip(t *testing.T) {
	s := NewSubjectStore()
	s.Put(Subject{ID: "alice", LeetCode: "alice_lc"})
	s.SetCalendar("alice", PlatformLeetCode, calendar.RawCalendar{"1709251200": 4}, fetchedAt)
	s.SetResult("alice", StreakRecord{
		Result:     calendar.StreakResult{CurrentStreak: 1, LongestStreak: 1, TotalActivity: 4},
		Reference:  calendar.MustParseDate("2024-03-01"),
		ComputedAt: fetchedAt,
	})

	data, err := json.Marshal(s.GetData())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, SnapshotVersion, snap.Version)

	restored := NewSubjectStore()
	restored.PutData(&snap)

	sub, ok := restored.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "alice_lc", sub.LeetCode)

	cals, _, _ := restored.Calendars("alice")
	assert.Equal(t, 4, cals[PlatformLeetCode]["1709251200"])

	rec, ok := restored.Result("alice")
	require.True(t, ok)
	assert.Equal(t, 4, rec.Result.TotalActivity)
	assert.Equal(t, "2024-03-01", rec.Reference.String())

	h, _ := restored.History("alice")
	assert.Equal(t, 1, h.ActiveDays)
}

func TestSubjectStore_PutDataRebuildsMissingHistory(t *testing.T) {
	raw := `{"version":1,"subjects":{"bob":{"subject":{"id":"bob"},"calendars":{"github":{"2024-03-01":1,"2024-03-02":1}}}}}`
	var snap Snapshot
	require.NoError(t, json.Unmarshal([]byte(raw), &snap))

	s := NewSubjectStore()
	s.PutData(&snap)

	h, ok := s.History("bob")
	require.True(t, ok)
	assert.Equal(t, 2, h.LongestStreak)
}

func TestSubjectStore_PutDataNil(t *testing.T) {
	s := NewSubjectStore()
	s.Put(Subject{ID: "alice"})
	s.PutData(nil)
	assert.Equal(t, 0, s.Len())
}

func TestSubjectStore_ConcurrentAccess(t *testing.T) {
	s := NewSubjectStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", n%5)
			s.Put(Subject{ID: id})
			s.SetCalendar(id, PlatformGitHub, calendar.RawCalendar{"2024-03-01": n}, fetchedAt)
			_, _, _ = s.Calendars(id)
			_ = s.GetData()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, s.Len())
}
