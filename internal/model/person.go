package model

import "time"

type Person struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Palette is the fixed set of colours handed out round-robin to new people.
var Palette = []string{
	"#3B82F6",
	"#EF4444",
	"#10B981",
	"#F59E0B",
	"#8B5CF6",
	"#EC4899",
	"#14B8A6",
	"#F97316",
}

// PaletteColor returns the palette entry for the n-th person of a family.
func PaletteColor(n int) string {
	if n < 0 {
		n = -n
	}
	return Palette[n%len(Palette)]
}
