package model

import "time"

type Assignment struct {
	ID           string    `json:"id"`
	FamilyID     string    `json:"family_id"`
	PersonID     string    `json:"person_id"`
	ChoreID      string    `json:"chore_id"`
	WeekStartISO string    `json:"week_start_iso"`
	DayIndex     int       `json:"day_index"`
	CreatedAt    time.Time `json:"created_at"`
}
