// Package recurrence parses a small RRULE subset and expands it into the
// calendar dates a chore repeats on.
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidRule = errors.New("invalid recurrence rule")

type Freq int

const (
	Daily Freq = iota
	Weekly
	Monthly
)

var freqNames = map[Freq]string{
	Daily:   "DAILY",
	Weekly:  "WEEKLY",
	Monthly: "MONTHLY",
}

var freqFromName = map[string]Freq{
	"DAILY":   Daily,
	"WEEKLY":  Weekly,
	"MONTHLY": Monthly,
}

var dayNames = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

var dayAbbrev = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

type Rule struct {
	Freq       Freq
	Interval   int            // default 1; 2 = every other week when Freq=Weekly
	ByDay      []time.Weekday // WEEKLY only; empty means the anchor's weekday
	ByMonthDay int            // MONTHLY only; 0 means the anchor's day of month
	Count      int            // max occurrences, 0 = unlimited
	Until      *time.Time     // last date (inclusive), nil = no limit
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRule, fmt.Sprintf(format, args...))
}

// Parse parses rules like "FREQ=WEEKLY;BYDAY=MO,WE;INTERVAL=2". Keys and
// values are case-insensitive and an optional "RRULE:" prefix is ignored.
func Parse(rule string) (Rule, error) {
	rule = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(rule)), "RRULE:")
	if rule == "" {
		return Rule{}, invalid("empty rule")
	}

	r := Rule{Interval: 1}
	var hasFreq bool

	for _, part := range strings.Split(rule, ";") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return Rule{}, invalid("bad part %q", part)
		}

		switch key {
		case "FREQ":
			f, ok := freqFromName[val]
			if !ok {
				return Rule{}, invalid("unknown frequency %q", val)
			}
			r.Freq = f
			hasFreq = true

		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Rule{}, invalid("bad interval %q", val)
			}
			r.Interval = n

		case "BYDAY":
			seen := map[time.Weekday]bool{}
			for _, d := range strings.Split(val, ",") {
				wd, ok := dayNames[strings.TrimSpace(d)]
				if !ok {
					return Rule{}, invalid("unknown day %q", d)
				}
				if !seen[wd] {
					seen[wd] = true
					r.ByDay = append(r.ByDay, wd)
				}
			}

		case "BYMONTHDAY":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 31 {
				return Rule{}, invalid("bad BYMONTHDAY %q", val)
			}
			r.ByMonthDay = n

		case "COUNT":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Rule{}, invalid("bad count %q", val)
			}
			r.Count = n

		case "UNTIL":
			t, err := time.Parse("20060102", val)
			if err != nil {
				t, err = time.Parse("2006-01-02", val)
			}
			if err != nil {
				return Rule{}, invalid("bad UNTIL %q", val)
			}
			r.Until = &t

		default:
			return Rule{}, invalid("unsupported key %q", key)
		}
	}

	if !hasFreq {
		return Rule{}, invalid("FREQ is required")
	}
	if len(r.ByDay) > 0 && r.Freq != Weekly {
		return Rule{}, invalid("BYDAY needs FREQ=WEEKLY")
	}
	if r.ByMonthDay > 0 && r.Freq != Monthly {
		return Rule{}, invalid("BYMONTHDAY needs FREQ=MONTHLY")
	}
	return r, nil
}

// String serializes the rule in canonical form.
func (r Rule) String() string {
	parts := []string{"FREQ=" + freqNames[r.Freq]}

	if r.Interval > 1 {
		parts = append(parts, fmt.Sprintf("INTERVAL=%d", r.Interval))
	}
	if len(r.ByDay) > 0 {
		days := make([]string, len(r.ByDay))
		for i, d := range r.ByDay {
			days[i] = dayAbbrev[d]
		}
		parts = append(parts, "BYDAY="+strings.Join(days, ","))
	}
	if r.ByMonthDay > 0 {
		parts = append(parts, fmt.Sprintf("BYMONTHDAY=%d", r.ByMonthDay))
	}
	if r.Count > 0 {
		parts = append(parts, fmt.Sprintf("COUNT=%d", r.Count))
	}
	if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.Format("20060102"))
	}
	return strings.Join(parts, ";")
}

// Describe returns a human-readable description of the rule.
func (r Rule) Describe() string {
	switch r.Freq {
	case Daily:
		if r.Interval > 1 {
			return fmt.Sprintf("Every %d days", r.Interval)
		}
		return "Every day"
	case Weekly:
		prefix := "Every week"
		if r.Interval == 2 {
			prefix = "Every other week"
		} else if r.Interval > 2 {
			prefix = fmt.Sprintf("Every %d weeks", r.Interval)
		}
		if len(r.ByDay) == 0 {
			return prefix
		}
		names := make([]string, len(r.ByDay))
		for i, d := range r.ByDay {
			names[i] = d.String()[:3]
		}
		return prefix + " on " + strings.Join(names, ", ")
	case Monthly:
		prefix := "Every month"
		if r.Interval > 1 {
			prefix = fmt.Sprintf("Every %d months", r.Interval)
		}
		if r.ByMonthDay > 0 {
			return fmt.Sprintf("%s on day %d", prefix, r.ByMonthDay)
		}
		return prefix
	}
	return ""
}
