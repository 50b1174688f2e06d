package model

import "time"

type Chore struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultChores are seeded into every new family.
var DefaultChores = []string{"Dishes", "Trash", "Laundry", "Vacuum"}
