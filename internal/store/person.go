package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/google/uuid"
)

type PersonStore struct {
	db *sql.DB
}

func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{db: db}
}

func scanPerson(scanner interface{ Scan(...any) error }) (*model.Person, error) {
	var p model.Person
	var phone sql.NullString
	err := scanner.Scan(&p.ID, &p.FamilyID, &p.Name, &p.Email, &phone, &p.Color, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	return &p, nil
}

const personCols = `id, family_id, name, email, phone, color, created_at, updated_at`

func listPeople(db execer, familyID string) ([]model.Person, error) {
	rows, err := db.Query(
		`SELECT `+personCols+` FROM people WHERE family_id = ? ORDER BY created_at ASC, name ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Create inserts a person. An empty color picks the next palette entry based on
// how many people the family already has.
func (s *PersonStore) Create(familyID, name, email string, phone *string, color string) (*model.Person, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if color == "" {
		var count int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM people WHERE family_id = ?`, familyID).Scan(&count); err != nil {
			return nil, fmt.Errorf("count people: %w", err)
		}
		color = model.PaletteColor(count)
	}

	id := uuid.NewString()
	_, err = tx.Exec(
		`INSERT INTO people (id, family_id, name, email, phone, color) VALUES (?, ?, ?, ?, ?, ?)`,
		id, familyID, name, email, nullString(phone), color,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("insert person: %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}

	p, err := scanPerson(tx.QueryRow(`SELECT `+personCols+` FROM people WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func (s *PersonStore) GetByID(id string) (*model.Person, error) {
	row := s.db.QueryRow(`SELECT `+personCols+` FROM people WHERE id = ?`, id)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

// ListByEmail returns people registered with the email in any family.
func (s *PersonStore) ListByEmail(email string) ([]model.Person, error) {
	rows, err := s.db.Query(
		`SELECT `+personCols+` FROM people WHERE email = ? ORDER BY created_at ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list people by email: %w", err)
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

func (s *PersonStore) List(familyID string) ([]model.Person, error) {
	return listPeople(s.db, familyID)
}

func (s *PersonStore) Update(id, name, email string, phone *string, color string) (*model.Person, error) {
	result, err := s.db.Exec(
		`UPDATE people SET name = ?, email = ?, phone = ?, color = ? WHERE id = ?`,
		name, email, nullString(phone), color, id,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("update person: %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a person and, through the foreign key, their assignments.
func (s *PersonStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

func (s *PersonStore) EmailExists(familyID, email, excludeID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM people WHERE family_id = ? AND email = ? AND id != ?`,
		familyID, email, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check person email: %w", err)
	}
	return count > 0, nil
}
