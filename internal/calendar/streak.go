package calendar

// StreakResult holds the streak statistics of one subject.
type StreakResult struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
	TotalActivity int `json:"totalActivity"`
}

// Streaks computes the statistics of an ascending sequence whose last day is
// the reference date, which is the case for every Normalize output.
func Streaks(days []CanonicalDay) (StreakResult, error) {
	if len(days) == 0 {
		return StreakResult{}, nil
	}
	return StreaksAt(days, days[len(days)-1].Date)
}

// StreaksAt computes the statistics relative to ref. The sequence must be
// ascending; it may contain gaps and repeated dates.
//
// The current streak is alive when the most recent active day on or before
// ref is ref itself or the day before (one grace day). It then extends back
// over consecutive active days.
func StreaksAt(days []CanonicalDay, ref Date) (StreakResult, error) {
	var res StreakResult
	if len(days) == 0 {
		return res, nil
	}

	days, err := collapse(days)
	if err != nil {
		return res, err
	}

	run := 0
	for i, d := range days {
		res.TotalActivity += d.Count
		if d.Count == 0 {
			run = 0
			continue
		}
		if i > 0 && d.Date-days[i-1].Date > 1 {
			run = 0
		}
		run++
		res.LongestStreak = max(res.LongestStreak, run)
	}

	res.CurrentStreak = currentStreak(days, ref)
	if res.CurrentStreak > res.LongestStreak {
		res.LongestStreak = res.CurrentStreak
	}
	return res, nil
}

func currentStreak(days []CanonicalDay, ref Date) int {
	i := len(days) - 1
	for i >= 0 && days[i].Date > ref {
		i--
	}
	for i >= 0 && days[i].Count == 0 {
		i--
	}
	if i < 0 || ref-days[i].Date > 1 {
		return 0
	}

	streak := 1
	for j := i - 1; j >= 0; j-- {
		if days[j].Count == 0 || days[j+1].Date-days[j].Date != 1 {
			break
		}
		streak++
	}
	return streak
}

// collapse validates the sequence and merges repeated dates. The input is
// returned untouched when it has no repeats.
func collapse(days []CanonicalDay) ([]CanonicalDay, error) {
	dup := false
	for i, d := range days {
		if d.Count < 0 {
			return nil, integrityError(d.Date.String(), "negative count %d", d.Count)
		}
		if i == 0 {
			continue
		}
		switch prev := days[i-1].Date; {
		case d.Date < prev:
			return nil, integrityError(d.Date.String(), "sequence is not ascending after %s", prev)
		case d.Date == prev:
			dup = true
		}
	}
	if !dup {
		return days, nil
	}

	out := make([]CanonicalDay, 0, len(days))
	for _, d := range days {
		if n := len(out); n > 0 && out[n-1].Date == d.Date {
			out[n-1].Count += d.Count
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
