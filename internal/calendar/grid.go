package calendar

import (
	"time"

	"github.com/dukerupert/chorechart/internal/model"
)

// Cell is one person's chores on one date.
type Cell struct {
	Date          string   `json:"date"`
	DayIndex      int      `json:"day_index"`
	InMonth       bool     `json:"in_month"`
	ChoreIDs      []string `json:"chore_ids"`
	ChoreLabels   []string `json:"chore_labels"`
	AssignmentIDs []string `json:"assignment_ids"`
}

// Row is a person's line across a week.
type Row struct {
	PersonID string  `json:"person_id"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Cells    [7]Cell `json:"cells"`
}

type WeekGrid struct {
	WeekStart string    `json:"week_start"`
	Dates     [7]string `json:"dates"`
	Rows      []Row     `json:"rows"`
}

type MonthGrid struct {
	Month string     `json:"month"`
	Weeks []WeekGrid `json:"weeks"`
}

// BuildWeek lays out one week with a row per person.
func BuildWeek(weekStart time.Time, people []model.Person, chores []model.Chore, idx *Index) WeekGrid {
	return buildWeek(WeekStart(weekStart), people, choreLabels(chores), idx, nil)
}

// BuildMonth lays out every week of ref's month. Cells outside the month are
// flagged so a client can dim them.
func BuildMonth(ref time.Time, people []model.Person, chores []model.Chore, idx *Index) MonthGrid {
	labels := choreLabels(chores)
	month := ref.Month()
	grid := MonthGrid{Month: ref.Format("2006-01"), Weeks: []WeekGrid{}}
	for _, row := range MonthMatrix(ref) {
		grid.Weeks = append(grid.Weeks, buildWeek(row[0], people, labels, idx, &month))
	}
	return grid
}

func buildWeek(start time.Time, people []model.Person, labels map[string]string, idx *Index, month *time.Month) WeekGrid {
	dates := WeekDates(start)
	grid := WeekGrid{WeekStart: FormatISO(start), Rows: make([]Row, 0, len(people))}
	for i, d := range dates {
		grid.Dates[i] = FormatISO(d)
	}

	for _, p := range people {
		row := Row{PersonID: p.ID, Name: p.Name, Color: p.Color}
		for i, d := range dates {
			cell := Cell{
				Date:          FormatISO(d),
				DayIndex:      i,
				InMonth:       month == nil || d.Month() == *month,
				ChoreIDs:      []string{},
				ChoreLabels:   []string{},
				AssignmentIDs: []string{},
			}
			for _, a := range idx.On(p.ID, d) {
				cell.ChoreIDs = append(cell.ChoreIDs, a.ChoreID)
				cell.ChoreLabels = append(cell.ChoreLabels, labels[a.ChoreID])
				cell.AssignmentIDs = append(cell.AssignmentIDs, a.ID)
			}
			row.Cells[i] = cell
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

func choreLabels(chores []model.Chore) map[string]string {
	labels := make(map[string]string, len(chores))
	for _, c := range chores {
		labels[c.ID] = c.Label
	}
	return labels
}
