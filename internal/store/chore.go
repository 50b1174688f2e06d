package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/google/uuid"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	err := scanner.Scan(&c.ID, &c.FamilyID, &c.Label, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const choreCols = `id, family_id, label, created_at, updated_at`

func insertChore(db execer, familyID, label string) (*model.Chore, error) {
	id := uuid.NewString()
	_, err := db.Exec(`INSERT INTO chores (id, family_id, label) VALUES (?, ?, ?)`, id, familyID, label)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("insert chore: %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	c, err := scanChore(db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func listChores(db execer, familyID string) ([]model.Chore, error) {
	rows, err := db.Query(
		`SELECT `+choreCols+` FROM chores WHERE family_id = ? ORDER BY label COLLATE NOCASE ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) Create(familyID, label string) (*model.Chore, error) {
	return insertChore(s.db, familyID, label)
}

func (s *ChoreStore) GetByID(id string) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) List(familyID string) ([]model.Chore, error) {
	return listChores(s.db, familyID)
}

func (s *ChoreStore) Update(id, label string) (*model.Chore, error) {
	result, err := s.db.Exec(`UPDATE chores SET label = ? WHERE id = ?`, label, id)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("update chore: %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, fmt.Errorf("update chore: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a chore and, through the foreign key, its assignments.
func (s *ChoreStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

// LabelExists compares labels case-insensitively within a family.
func (s *ChoreStore) LabelExists(familyID, label, excludeID string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM chores WHERE family_id = ? AND label = ? COLLATE NOCASE AND id != ?`,
		familyID, label, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check chore label: %w", err)
	}
	return count > 0, nil
}
