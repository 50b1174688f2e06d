package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/google/uuid"
)

type FamilyStore struct {
	db *sql.DB
}

func NewFamilyStore(db *sql.DB) *FamilyStore {
	return &FamilyStore{db: db}
}

func scanFamily(scanner interface{ Scan(...any) error }) (*model.Family, error) {
	var f model.Family
	err := scanner.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

const familyCols = `id, name, created_at, updated_at`

// Create inserts a family, its first admin and the default chores in a single
// transaction. Nothing is written if any step fails.
func (s *FamilyStore) Create(name, adminEmail, passwordHash string) (*model.Family, *model.Admin, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	familyID := uuid.NewString()
	if _, err := tx.Exec(`INSERT INTO families (id, name) VALUES (?, ?)`, familyID, name); err != nil {
		return nil, nil, fmt.Errorf("insert family: %w", err)
	}

	admin, err := insertAdmin(tx, familyID, adminEmail, passwordHash)
	if err != nil {
		return nil, nil, err
	}

	for _, label := range model.DefaultChores {
		if _, err := insertChore(tx, familyID, label); err != nil {
			return nil, nil, fmt.Errorf("seed chore %q: %w", label, err)
		}
	}

	family, err := scanFamily(tx.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, familyID))
	if err != nil {
		return nil, nil, fmt.Errorf("get family: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return family, admin, nil
}

func (s *FamilyStore) GetByID(id string) (*model.Family, error) {
	row := s.db.QueryRow(`SELECT `+familyCols+` FROM families WHERE id = ?`, id)
	f, err := scanFamily(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

func (s *FamilyStore) Rename(id, name string) (*model.Family, error) {
	result, err := s.db.Exec(`UPDATE families SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("update family: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, fmt.Errorf("update family: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the family; admins, people, chores and assignments go with it.
func (s *FamilyStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	return nil
}

// Snapshot loads a family with all of its records. Returns nil when the family
// does not exist.
func (s *FamilyStore) Snapshot(id string) (*model.FamilySnapshot, error) {
	family, err := s.GetByID(id)
	if err != nil || family == nil {
		return nil, err
	}

	admins, err := listAdmins(s.db, id)
	if err != nil {
		return nil, err
	}
	people, err := listPeople(s.db, id)
	if err != nil {
		return nil, err
	}
	chores, err := listChores(s.db, id)
	if err != nil {
		return nil, err
	}
	assignments, err := listAssignments(s.db, `WHERE family_id = ? ORDER BY week_start_iso, day_index, created_at`, id)
	if err != nil {
		return nil, err
	}

	return &model.FamilySnapshot{
		Family:      *family,
		Admins:      nonNil(admins),
		People:      nonNil(people),
		Chores:      nonNil(chores),
		Assignments: nonNil(assignments),
	}, nil
}

// nonNil keeps empty collections serializing as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
