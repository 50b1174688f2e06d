// Package calendar holds the week and month arithmetic behind the chore grids.
// Weeks always start on Sunday; day index 0 is Sunday and 6 is Saturday.
package calendar

import (
	"fmt"
	"time"
)

// ISODate is the layout used for week starts and dates on the wire.
const ISODate = "2006-01-02"

// ParseISODate parses a YYYY-MM-DD date at midnight UTC.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM month and returns its first day at midnight UTC.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return t, nil
}

func FormatISO(t time.Time) string {
	return t.Format(ISODate)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayIndex returns 0 for Sunday through 6 for Saturday.
func DayIndex(t time.Time) int {
	return int(t.Weekday())
}

// WeekStart returns the Sunday at or before t, truncated to midnight.
func WeekStart(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -DayIndex(day))
}

// WeekDates returns the seven consecutive dates beginning at weekStart.
func WeekDates(weekStart time.Time) [7]time.Time {
	var dates [7]time.Time
	for i := range dates {
		dates[i] = weekStart.AddDate(0, 0, i)
	}
	return dates
}

// MonthMatrix returns whole Sunday-to-Saturday rows covering every day of ref's
// month, padded with days from the neighbouring months.
func MonthMatrix(ref time.Time) [][7]time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)

	var rows [][7]time.Time
	for start := WeekStart(first); ; start = start.AddDate(0, 0, 7) {
		row := WeekDates(start)
		rows = append(rows, row)
		if !row[6].Before(last) {
			break
		}
	}
	return rows
}

// NormalizeWeekStart parses an ISO date and returns the ISO week start of its week.
func NormalizeWeekStart(s string) (string, error) {
	t, err := ParseISODate(s)
	if err != nil {
		return "", err
	}
	return FormatISO(WeekStart(t)), nil
}
