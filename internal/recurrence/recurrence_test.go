package recurrence

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isoDates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format("2006-01-02")
	}
	return out
}

func TestParseFreqOnly(t *testing.T) {
	tests := []struct {
		input string
		freq  Freq
	}{
		{"FREQ=DAILY", Daily},
		{"FREQ=WEEKLY", Weekly},
		{"freq=monthly", Monthly},
		{"RRULE:FREQ=WEEKLY", Weekly},
	}

	for _, tt := range tests {
		r, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if r.Freq != tt.freq {
			t.Errorf("Parse(%q).Freq = %d, want %d", tt.input, r.Freq, tt.freq)
		}
		if r.Interval != 1 {
			t.Errorf("Parse(%q).Interval = %d, want 1", tt.input, r.Interval)
		}
	}
}

func TestParseFull(t *testing.T) {
	r, err := Parse("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,MO;COUNT=6;UNTIL=20261231")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Interval != 2 {
		t.Errorf("Interval = %d, want 2", r.Interval)
	}
	if !slices.Equal(r.ByDay, []time.Weekday{time.Monday, time.Wednesday}) {
		t.Errorf("ByDay = %v", r.ByDay)
	}
	if r.Count != 6 {
		t.Errorf("Count = %d, want 6", r.Count)
	}
	if r.Until == nil || !r.Until.Equal(day(2026, time.December, 31)) {
		t.Errorf("Until = %v", r.Until)
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"INTERVAL=2",
		"FREQ=HOURLY",
		"FREQ=WEEKLY;INTERVAL=0",
		"FREQ=WEEKLY;BYDAY=XX",
		"FREQ=DAILY;BYDAY=MO",
		"FREQ=WEEKLY;BYMONTHDAY=3",
		"FREQ=MONTHLY;BYMONTHDAY=32",
		"FREQ=DAILY;COUNT=-1",
		"FREQ=DAILY;UNTIL=tomorrow",
		"FREQ=DAILY;BYSETPOS=1",
		"FREQ",
	}
	for _, in := range inputs {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidRule) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidRule", in, err)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{
		"FREQ=DAILY",
		"FREQ=WEEKLY;INTERVAL=2;BYDAY=SU,SA",
		"FREQ=MONTHLY;BYMONTHDAY=15;COUNT=3",
		"FREQ=DAILY;UNTIL=20261101",
	}
	for _, in := range inputs {
		r, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := r.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		rule string
		want string
	}{
		{"FREQ=DAILY", "Every day"},
		{"FREQ=DAILY;INTERVAL=3", "Every 3 days"},
		{"FREQ=WEEKLY", "Every week"},
		{"FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,TH", "Every other week on Mon, Thu"},
		{"FREQ=WEEKLY;INTERVAL=3;BYDAY=SA", "Every 3 weeks on Sat"},
		{"FREQ=MONTHLY;BYMONTHDAY=1", "Every month on day 1"},
		{"FREQ=MONTHLY;INTERVAL=2", "Every 2 months"},
	}
	for _, tt := range tests {
		r, err := Parse(tt.rule)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.rule, err)
		}
		if got := r.Describe(); got != tt.want {
			t.Errorf("Describe(%q) = %q, want %q", tt.rule, got, tt.want)
		}
	}
}

func TestDates(t *testing.T) {
	// 2026-03-04 is a Wednesday.
	from := day(2026, time.March, 4)

	tests := []struct {
		name string
		rule string
		to   time.Time
		want []string
	}{
		{
			name: "daily interval",
			rule: "FREQ=DAILY;INTERVAL=2",
			to:   day(2026, time.March, 10),
			want: []string{"2026-03-04", "2026-03-06", "2026-03-08", "2026-03-10"},
		},
		{
			name: "weekly defaults to anchor weekday",
			rule: "FREQ=WEEKLY",
			to:   day(2026, time.March, 25),
			want: []string{"2026-03-04", "2026-03-11", "2026-03-18", "2026-03-25"},
		},
		{
			name: "weekly byday within first week",
			rule: "FREQ=WEEKLY;BYDAY=MO,SA",
			to:   day(2026, time.March, 16),
			want: []string{"2026-03-07", "2026-03-09", "2026-03-14", "2026-03-16"},
		},
		{
			name: "every other week aligned to sunday weeks",
			rule: "FREQ=WEEKLY;INTERVAL=2;BYDAY=SU,TH",
			to:   day(2026, time.March, 31),
			want: []string{"2026-03-05", "2026-03-15", "2026-03-19", "2026-03-29"},
		},
		{
			name: "count stops early",
			rule: "FREQ=DAILY;COUNT=3",
			to:   day(2026, time.April, 30),
			want: []string{"2026-03-04", "2026-03-05", "2026-03-06"},
		},
		{
			name: "until trims range",
			rule: "FREQ=DAILY;UNTIL=2026-03-06",
			to:   day(2026, time.April, 30),
			want: []string{"2026-03-04", "2026-03-05", "2026-03-06"},
		},
		{
			name: "monthly by month day",
			rule: "FREQ=MONTHLY;BYMONTHDAY=1",
			to:   day(2026, time.June, 30),
			want: []string{"2026-04-01", "2026-05-01", "2026-06-01"},
		},
		{
			name: "empty range",
			rule: "FREQ=DAILY",
			to:   day(2026, time.March, 3),
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse(tt.rule)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			got := isoDates(Dates(r, from, tt.to))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Dates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDatesMonthlySkipsShortMonths(t *testing.T) {
	r, _ := Parse("FREQ=MONTHLY")
	got := isoDates(Dates(r, day(2026, time.January, 31), day(2026, time.May, 31)))
	want := []string{"2026-01-31", "2026-03-31", "2026-05-31"}
	if !slices.Equal(got, want) {
		t.Errorf("Dates = %v, want %v", got, want)
	}
}

func TestDatesCapped(t *testing.T) {
	r, _ := Parse("FREQ=DAILY")
	got := Dates(r, day(2026, time.January, 1), day(2030, time.January, 1))
	if len(got) != MaxSpan {
		t.Errorf("len = %d, want %d", len(got), MaxSpan)
	}
}

func TestDatesIgnoresTimeOfDay(t *testing.T) {
	r, _ := Parse("FREQ=DAILY")
	from := time.Date(2026, time.March, 4, 18, 30, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 5, 6, 0, 0, 0, time.UTC)
	got := isoDates(Dates(r, from, to))
	if !slices.Equal(got, []string{"2026-03-04", "2026-03-05"}) {
		t.Errorf("Dates = %v", got)
	}
}
