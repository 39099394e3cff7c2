package calendar

import "time"

const labelLayout = "Jan 2"

// WeekBucket is the activity sum of a 7-day block. The last bucket of a
// window that is not a multiple of 7 is shorter.
type WeekBucket struct {
	Label string `json:"label"`
	Start Date   `json:"start"`
	Days  int    `json:"days"`
	Total int    `json:"total"`
}

// WeeklySums splits days into consecutive 7-day buckets starting at the first day.
func WeeklySums(days []CanonicalDay) []WeekBucket {
	buckets := make([]WeekBucket, 0, (len(days)+6)/7)
	for i := 0; i < len(days); i += 7 {
		end := min(i+7, len(days))
		b := WeekBucket{
			Label: days[i].Date.Time().Format(labelLayout),
			Start: days[i].Date,
			Days:  end - i,
		}
		for _, d := range days[i:end] {
			b.Total += d.Count
		}
		buckets = append(buckets, b)
	}
	return buckets
}

type ActivityLevel int

const (
	LevelInactive ActivityLevel = iota
	LevelActive
)

// LevelOf maps a count to its display level. The scale is binary.
func LevelOf(count int) ActivityLevel {
	if count > 0 {
		return LevelActive
	}
	return LevelInactive
}

type GridCell struct {
	Date  Date          `json:"date"`
	Count int           `json:"count"`
	Level ActivityLevel `json:"level"`
}

// CalendarGrid holds week columns of weekday slots. A nil slot is padding.
type CalendarGrid [][]*GridCell

// BuildGrid lays days out in week columns. The first column is left-padded so
// the first day sits in its weekday row counted from weekStart; the last
// column stops at the last day.
func BuildGrid(days []CanonicalDay, weekStart time.Weekday) CalendarGrid {
	if len(days) == 0 {
		return CalendarGrid{}
	}

	first := days[0].Date
	offset := (int(first.Weekday()) - int(weekStart) + 7) % 7
	span := int(days[len(days)-1].Date-first) + 1
	slots := offset + span

	grid := make(CalendarGrid, (slots+6)/7)
	for c := range grid {
		grid[c] = make([]*GridCell, min(7, slots-c*7))
	}

	for _, d := range days {
		pos := offset + int(d.Date-first)
		if pos < offset || pos >= slots {
			continue
		}
		col, row := pos/7, pos%7
		if cell := grid[col][row]; cell != nil {
			cell.Count += d.Count
			cell.Level = LevelOf(cell.Count)
			continue
		}
		grid[col][row] = &GridCell{Date: d.Date, Count: d.Count, Level: LevelOf(d.Count)}
	}
	return grid
}

// Cells returns the populated cells in date order.
func (g CalendarGrid) Cells() []*GridCell {
	var out []*GridCell
	for _, col := range g {
		for _, cell := range col {
			if cell != nil {
				out = append(out, cell)
			}
		}
	}
	return out
}
