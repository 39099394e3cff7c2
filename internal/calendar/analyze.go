package calendar

import "time"

type Options struct {
	DailyWindow  int
	WeeklyWindow int
	WeekStart    time.Weekday
}

func DefaultOptions() Options {
	return Options{
		DailyWindow:  DailyWindow,
		WeeklyWindow: WeeklyWindow,
		WeekStart:    time.Sunday,
	}
}

// Report is everything derived from one raw calendar.
type Report struct {
	Reference Date           `json:"reference"`
	Streak    StreakResult   `json:"streak"`
	Days      []CanonicalDay `json:"days"`
	Weekly    []WeekBucket   `json:"weekly"`
	Grid      CalendarGrid   `json:"grid"`
	Skipped   int            `json:"skippedKeys"`
}

// Analyze runs the whole pipeline: the daily window feeds the streaks and the
// grid, the weekly window feeds the weekly sums.
func Analyze(raw RawCalendar, ref time.Time, opts Options) (*Report, error) {
	end := DateOf(ref)

	daily, err := NormalizeAt(raw, end, opts.DailyWindow)
	if err != nil {
		return nil, err
	}
	streak, err := Streaks(daily.Days)
	if err != nil {
		return nil, err
	}

	weekly, err := NormalizeAt(raw, end, opts.WeeklyWindow)
	if err != nil {
		return nil, err
	}

	return &Report{
		Reference: end,
		Streak:    streak,
		Days:      daily.Days,
		Weekly:    WeeklySums(weekly.Days),
		Grid:      BuildGrid(daily.Days, opts.WeekStart),
		Skipped:   daily.Skipped,
	}, nil
}
