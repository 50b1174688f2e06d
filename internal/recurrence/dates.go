package recurrence

import (
	"slices"
	"time"

	"github.com/dukerupert/chorechart/internal/calendar"
)

// MaxSpan bounds how far a single expansion may reach.
const MaxSpan = 366

// Dates returns every date in [from, to] on which the rule fires, anchored at
// from. Dates are midnight in from's location; times of day are ignored.
func Dates(r Rule, from, to time.Time) []time.Time {
	from = midnight(from)
	to = midnight(to)
	if r.Until != nil {
		if until := time.Date(r.Until.Year(), r.Until.Month(), r.Until.Day(), 0, 0, 0, 0, from.Location()); until.Before(to) {
			to = until
		}
	}

	var dates []time.Time
	for i, d := 0, from; !d.After(to) && i < MaxSpan; i, d = i+1, d.AddDate(0, 0, 1) {
		if !r.fires(from, d) {
			continue
		}
		dates = append(dates, d)
		if r.Count > 0 && len(dates) == r.Count {
			break
		}
	}
	return dates
}

func (r Rule) fires(anchor, d time.Time) bool {
	interval := max(r.Interval, 1)

	switch r.Freq {
	case Daily:
		return daysBetween(anchor, d)%interval == 0

	case Weekly:
		weeks := daysBetween(calendar.WeekStart(anchor), calendar.WeekStart(d)) / 7
		if weeks%interval != 0 {
			return false
		}
		if len(r.ByDay) == 0 {
			return d.Weekday() == anchor.Weekday()
		}
		return slices.Contains(r.ByDay, d.Weekday())

	case Monthly:
		months := (d.Year()-anchor.Year())*12 + int(d.Month()-anchor.Month())
		if months%interval != 0 {
			return false
		}
		day := r.ByMonthDay
		if day == 0 {
			day = anchor.Day()
		}
		return d.Day() == day
	}
	return false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, immune to DST-length days.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
