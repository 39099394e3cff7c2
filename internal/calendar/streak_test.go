package calendar

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence builds a contiguous sequence whose last count falls on end.
func sequence(end string, counts ...int) []CanonicalDay {
	last := MustParseDate(end)
	days := make([]CanonicalDay, len(counts))
	for i, c := range counts {
		days[i] = CanonicalDay{Date: last.AddDays(i - len(counts) + 1), Count: c}
	}
	return days
}

func TestStreaks_Empty(t *testing.T) {
	res, err := Streaks(nil)
	require.NoError(t, err)
	assert.Equal(t, StreakResult{}, res)
}

func TestStreaks_AllZero(t *testing.T) {
	res, err := Streaks(sequence("2024-03-01", 0, 0, 0, 0, 0, 0, 0, 0, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, StreakResult{}, res)
}

func TestStreaks_ActiveLastFiveDays(t *testing.T) {
	res, err := Streaks(sequence("2024-03-01", 0, 0, 0, 1, 2, 1, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, StreakResult{CurrentStreak: 5, LongestStreak: 5, TotalActivity: 9}, res)
}

func TestStreaks_GraceDay(t *testing.T) {
	res, err := Streaks(sequence("2024-03-01", 0, 0, 3, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentStreak)
	assert.Equal(t, 1, res.LongestStreak)
	assert.Equal(t, 3, res.TotalActivity)
}

func TestStreaks_GraceDayExtendsBackward(t *testing.T) {
	res, err := Streaks(sequence("2024-03-01", 1, 1, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, res.CurrentStreak)
}

func TestStreaks_TwoIdleDaysBreakStreak(t *testing.T) {
	res, err := Streaks(sequence("2024-03-01", 0, 2, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, res.CurrentStreak)
	assert.Equal(t, 1, res.LongestStreak)
}

func TestStreaks_HistoricalLongestRun(t *testing.T) {
	counts := []int{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 2, 5}
	res, err := Streaks(sequence("2024-03-01", counts...))
	require.NoError(t, err)
	assert.Equal(t, 10, res.LongestStreak)
	assert.Equal(t, 2, res.CurrentStreak)
	assert.Equal(t, 18, res.TotalActivity)
}

func TestStreaksAt_GapsBreakRuns(t *testing.T) {
	days := []CanonicalDay{
		{Date: MustParseDate("2024-02-20"), Count: 1},
		{Date: MustParseDate("2024-02-21"), Count: 1},
		{Date: MustParseDate("2024-02-23"), Count: 1},
		{Date: MustParseDate("2024-02-28"), Count: 1},
		{Date: MustParseDate("2024-02-29"), Count: 1},
		{Date: MustParseDate("2024-03-01"), Count: 1},
	}
	res, err := StreaksAt(days, MustParseDate("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.CurrentStreak)
	assert.Equal(t, 3, res.LongestStreak)
	assert.Equal(t, 6, res.TotalActivity)
}

func TestStreaksAt_SparseGraceDay(t *testing.T) {
	days := []CanonicalDay{
		{Date: MustParseDate("2024-02-27"), Count: 2},
		{Date: MustParseDate("2024-02-29"), Count: 1},
	}
	res, err := StreaksAt(days, MustParseDate("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.CurrentStreak)

	res, err = StreaksAt(days, MustParseDate("2024-03-02"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.CurrentStreak)
}

func TestStreaksAt_IgnoresDaysAfterReference(t *testing.T) {
	days := sequence("2024-03-03", 1, 0, 0, 1, 1)
	res, err := StreaksAt(days, MustParseDate("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.CurrentStreak, "2024-03-01 and 2024-02-29 are idle")
	assert.Equal(t, 2, res.LongestStreak)
}

func TestStreaksAt_MergesRepeatedDates(t *testing.T) {
	days := []CanonicalDay{
		{Date: MustParseDate("2024-02-29"), Count: 1},
		{Date: MustParseDate("2024-03-01"), Count: 0},
		{Date: MustParseDate("2024-03-01"), Count: 2},
	}
	res, err := StreaksAt(days, MustParseDate("2024-03-01"))
	require.NoError(t, err)
	assert.Equal(t, StreakResult{CurrentStreak: 2, LongestStreak: 2, TotalActivity: 3}, res)
	assert.Equal(t, 0, days[1].Count, "input must not be modified")
}

func TestStreaks_RejectsNegativeCount(t *testing.T) {
	_, err := Streaks(sequence("2024-03-01", 1, -1, 1))
	var integrityErr *DataIntegrityError
	assert.True(t, errors.As(err, &integrityErr))
}

func TestStreaks_RejectsDescendingSequence(t *testing.T) {
	days := sequence("2024-03-01", 1, 1, 1)
	days[0], days[2] = days[2], days[0]
	_, err := Streaks(days)
	var integrityErr *DataIntegrityError
	assert.True(t, errors.As(err, &integrityErr))
}

func TestStreaks_CurrentNeverExceedsLongest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 500; iter++ {
		counts := make([]int, 1+rng.Intn(60))
		for i := range counts {
			if rng.Intn(3) > 0 {
				counts[i] = rng.Intn(4)
			}
		}
		res, err := Streaks(sequence("2024-03-01", counts...))
		require.NoError(t, err)
		assert.LessOrEqual(t, res.CurrentStreak, res.LongestStreak)
	}
}
