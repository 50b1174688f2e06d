package calendar

import (
	"testing"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday", date(2026, 2, 15), date(2026, 2, 15)},
		{"monday", date(2026, 2, 16), date(2026, 2, 15)},
		{"saturday", date(2026, 2, 21), date(2026, 2, 15)},
		{"with time of day", time.Date(2026, 2, 18, 23, 59, 0, 0, time.UTC), date(2026, 2, 15)},
		{"across month", date(2026, 3, 3), date(2026, 3, 1)},
		{"across year", date(2026, 1, 2), date(2025, 12, 28)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekStartSameForWholeWeek(t *testing.T) {
	for start := date(2025, 12, 28); start.Before(date(2027, 1, 1)); start = start.AddDate(0, 0, 7) {
		for i := 0; i < 7; i++ {
			d := start.AddDate(0, 0, i).Add(time.Duration(i) * 3 * time.Hour)
			if got := WeekStart(d); !got.Equal(start) {
				t.Fatalf("WeekStart(%v) = %v, want %v", d, got, start)
			}
		}
	}
}

func TestWeekStartLocalMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST begins 2026-03-08 in New York.
	in := time.Date(2026, 3, 10, 15, 0, 0, 0, loc)
	got := WeekStart(in)
	if got.Hour() != 0 || got.Day() != 8 || got.Weekday() != time.Sunday {
		t.Errorf("WeekStart = %v, want Sunday 2026-03-08 00:00", got)
	}
}

func TestWeekDates(t *testing.T) {
	dates := WeekDates(date(2026, 2, 15))
	for i, d := range dates {
		if DayIndex(d) != i {
			t.Errorf("dates[%d] weekday = %d, want %d", i, DayIndex(d), i)
		}
	}
	if got := FormatISO(dates[6]); got != "2026-02-21" {
		t.Errorf("last date = %q, want %q", got, "2026-02-21")
	}
}

func TestMonthMatrixCoversMonth(t *testing.T) {
	for y := 2025; y <= 2027; y++ {
		for m := time.January; m <= time.December; m++ {
			ref := date(y, m, 15)
			rows := MonthMatrix(ref)

			seen := map[string]bool{}
			for _, row := range rows {
				if row[0].Weekday() != time.Sunday {
					t.Fatalf("%d-%02d: row starts on %v", y, m, row[0].Weekday())
				}
				for _, d := range row {
					seen[FormatISO(d)] = true
				}
			}
			if len(seen)%7 != 0 {
				t.Fatalf("%d-%02d: %d dates, not whole weeks", y, m, len(seen))
			}
			first := date(y, m, 1)
			for d := first; d.Month() == m; d = d.AddDate(0, 0, 1) {
				if !seen[FormatISO(d)] {
					t.Fatalf("%d-%02d: missing %s", y, m, FormatISO(d))
				}
			}
			if len(rows) < 4 || len(rows) > 6 {
				t.Errorf("%d-%02d: %d rows", y, m, len(rows))
			}
		}
	}
}

func TestMonthMatrixFebruary2026(t *testing.T) {
	// February 2026 starts on a Sunday and ends on a Saturday.
	rows := MonthMatrix(date(2026, 2, 10))
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if got := FormatISO(rows[0][0]); got != "2026-02-01" {
		t.Errorf("first = %q, want 2026-02-01", got)
	}
	if got := FormatISO(rows[3][6]); got != "2026-02-28" {
		t.Errorf("last = %q, want 2026-02-28", got)
	}
}

func TestParseISODate(t *testing.T) {
	if _, err := ParseISODate("2026-02-30"); err == nil {
		t.Error("expected error for invalid date")
	}
	if _, err := ParseISODate("02/16/2026"); err == nil {
		t.Error("expected error for wrong layout")
	}
	got, err := NormalizeWeekStart("2026-02-16")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got != "2026-02-15" {
		t.Errorf("NormalizeWeekStart = %q, want %q", got, "2026-02-15")
	}
}

func TestIndex(t *testing.T) {
	idx := NewIndex([]model.Assignment{
		{ID: "a1", PersonID: "jo", ChoreID: "dishes", WeekStartISO: "2026-02-15", DayIndex: 1},
		{ID: "a2", PersonID: "jo", ChoreID: "trash", WeekStartISO: "2026-02-15", DayIndex: 1},
		{ID: "a3", PersonID: "sam", ChoreID: "dishes", WeekStartISO: "2026-02-22", DayIndex: 0},
	})

	if got := len(idx.On("jo", date(2026, 2, 16))); got != 2 {
		t.Errorf("jo on monday: %d assignments, want 2", got)
	}
	if idx.Has("jo", date(2026, 2, 17)) {
		t.Error("jo should have nothing on tuesday")
	}
	if !idx.Has("sam", date(2026, 2, 22)) {
		t.Error("sam should have a chore on 2026-02-22")
	}
	if idx.Has("sam", date(2026, 2, 15)) {
		t.Error("sam's chore is in the following week")
	}
}

func TestBuildWeek(t *testing.T) {
	people := []model.Person{
		{ID: "jo", Name: "Jo", Color: "#3B82F6"},
		{ID: "sam", Name: "Sam", Color: "#EF4444"},
	}
	chores := []model.Chore{{ID: "dishes", Label: "Dishes"}, {ID: "trash", Label: "Trash"}}
	idx := NewIndex([]model.Assignment{
		{ID: "a1", PersonID: "jo", ChoreID: "dishes", WeekStartISO: "2026-02-15", DayIndex: 1},
		{ID: "a2", PersonID: "jo", ChoreID: "trash", WeekStartISO: "2026-02-15", DayIndex: 1},
		{ID: "a3", PersonID: "sam", ChoreID: "trash", WeekStartISO: "2026-02-22", DayIndex: 1},
	})

	// A mid-week date lays out the whole Sunday-to-Saturday week.
	grid := BuildWeek(date(2026, 2, 18), people, chores, idx)
	if grid.WeekStart != "2026-02-15" {
		t.Errorf("week start = %q, want 2026-02-15", grid.WeekStart)
	}
	if grid.Dates[0] != "2026-02-15" || grid.Dates[6] != "2026-02-21" {
		t.Errorf("dates = %v", grid.Dates)
	}
	if len(grid.Rows) != 2 || grid.Rows[0].PersonID != "jo" || grid.Rows[1].Name != "Sam" {
		t.Fatalf("rows = %+v", grid.Rows)
	}

	monday := grid.Rows[0].Cells[1]
	if monday.Date != "2026-02-16" || monday.DayIndex != 1 || !monday.InMonth {
		t.Errorf("monday cell = %+v", monday)
	}
	if len(monday.ChoreLabels) != 2 || monday.ChoreLabels[0] != "Dishes" || monday.ChoreLabels[1] != "Trash" {
		t.Errorf("monday labels = %v, want [Dishes Trash]", monday.ChoreLabels)
	}
	if len(monday.AssignmentIDs) != 2 || monday.AssignmentIDs[0] != "a1" {
		t.Errorf("assignment ids = %v", monday.AssignmentIDs)
	}

	for i, cell := range grid.Rows[1].Cells {
		if cell.ChoreLabels == nil || len(cell.ChoreLabels) != 0 {
			t.Errorf("sam day %d labels = %#v, want empty", i, cell.ChoreLabels)
		}
	}

	if empty := BuildWeek(date(2026, 2, 15), nil, chores, idx); empty.Rows == nil || len(empty.Rows) != 0 {
		t.Errorf("rows without people = %#v, want empty", empty.Rows)
	}
}

func TestBuildMonth(t *testing.T) {
	people := []model.Person{{ID: "jo", Name: "Jo", Color: "#3B82F6"}}
	chores := []model.Chore{{ID: "dishes", Label: "Dishes"}}
	idx := NewIndex([]model.Assignment{
		{ID: "a1", PersonID: "jo", ChoreID: "dishes", WeekStartISO: "2026-02-22", DayIndex: 0},
		{ID: "a2", PersonID: "jo", ChoreID: "dishes", WeekStartISO: "2026-03-01", DayIndex: 0},
	})

	grid := BuildMonth(date(2026, 3, 1), people, chores, idx)
	if grid.Month != "2026-03" {
		t.Errorf("month = %q, want 2026-03", grid.Month)
	}
	first := grid.Weeks[0]
	if first.WeekStart != "2026-03-01" {
		t.Errorf("first week = %q, want 2026-03-01", first.WeekStart)
	}
	cell := first.Rows[0].Cells[0]
	if len(cell.ChoreLabels) != 1 || cell.ChoreLabels[0] != "Dishes" {
		t.Errorf("labels = %v, want [Dishes]", cell.ChoreLabels)
	}

	last := grid.Weeks[len(grid.Weeks)-1]
	if last.Rows[0].Cells[6].InMonth {
		t.Errorf("%s should be outside March", last.Rows[0].Cells[6].Date)
	}
}
