package services

import (
	"time"

	"moodiary/internal/models"
)

// DaySlot is one cell of a month grid. Day 0 marks padding before the first
// or after the last day of the month; Entry is non-nil when that date has a
// mood entry.
type DaySlot struct {
	Day   int               `json:"day"`
	Entry *models.MoodEntry `json:"entry,omitempty"`
}

// MonthGrid is a calendar month laid out as Monday-start weeks of seven
// slots, with per-day entry annotations and month-level aggregates.
type MonthGrid struct {
	Year       int         `json:"year"`
	Month      time.Month  `json:"month"`
	MonthName  string      `json:"month_name"`
	Weeks      [][]DaySlot `json:"weeks"`
	EntryCount int         `json:"entry_count"`
	AvgMood    float64     `json:"avg_mood"`
}

// BuildMonthGrid produces the calendar grid for a month. The entries slice
// is expected to hold only that month's entries; annotation goes through a
// day-indexed map so sparse months stay O(entries).
func BuildMonthGrid(year int, month time.Month, entries []models.MoodEntry) MonthGrid {
	byDay := make(map[int]*models.MoodEntry, len(entries))
	total := 0
	for i := range entries {
		e := &entries[i]
		byDay[e.Date.Day()] = e
		total += e.MoodScore
	}

	grid := MonthGrid{
		Year:       year,
		Month:      month,
		MonthName:  month.String(),
		EntryCount: len(entries),
	}
	if len(entries) > 0 {
		grid.AvgMood = float64(total) / float64(len(entries))
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	// Monday is column 0; Go's Weekday starts the week on Sunday.
	lead := (int(first.Weekday()) + 6) % 7

	day := 1
	for day <= daysInMonth {
		week := make([]DaySlot, 7)
		for i := 0; i < 7; i++ {
			if lead > 0 {
				lead--
				continue
			}
			if day > daysInMonth {
				continue
			}
			week[i] = DaySlot{Day: day, Entry: byDay[day]}
			day++
		}
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}
