package model

import "time"

type Family struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Admin never serializes its password hash.
type Admin struct {
	ID           string    `json:"id"`
	FamilyID     string    `json:"family_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// FamilySnapshot is everything a client needs to render a family's calendar.
type FamilySnapshot struct {
	Family
	Admins      []Admin      `json:"admins"`
	People      []Person     `json:"people"`
	Chores      []Chore      `json:"chores"`
	Assignments []Assignment `json:"assignments"`
}
