package calendar

import (
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

type key struct {
	personID  string
	weekStart string
	day       int
}

// Index looks up assignments by (person, week start, day index). It is built
// once from an immutable slice and never mutated afterwards.
type Index struct {
	byKey map[key][]model.Assignment
}

func NewIndex(assignments []model.Assignment) *Index {
	idx := &Index{byKey: make(map[key][]model.Assignment, len(assignments))}
	for _, a := range assignments {
		k := key{personID: a.PersonID, weekStart: a.WeekStartISO, day: a.DayIndex}
		idx.byKey[k] = append(idx.byKey[k], a)
	}
	return idx
}

// On returns the person's assignments for the date.
func (idx *Index) On(personID string, date time.Time) []model.Assignment {
	k := key{personID: personID, weekStart: FormatISO(WeekStart(date)), day: DayIndex(date)}
	return idx.byKey[k]
}

// Has reports whether the person has any chore on the date.
func (idx *Index) Has(personID string, date time.Time) bool {
	return len(idx.On(personID, date)) > 0
}
