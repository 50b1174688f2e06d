package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/google/uuid"
)

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

func scanAdmin(scanner interface{ Scan(...any) error }) (*model.Admin, error) {
	var a model.Admin
	err := scanner.Scan(&a.ID, &a.FamilyID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const adminCols = `id, family_id, email, password_hash, created_at`

func insertAdmin(db execer, familyID, email, passwordHash string) (*model.Admin, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO admins (id, family_id, email, password_hash) VALUES (?, ?, ?, ?)`,
		id, familyID, email, passwordHash,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("insert admin: %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	a, err := scanAdmin(db.QueryRow(`SELECT `+adminCols+` FROM admins WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

func listAdmins(db execer, familyID string) ([]model.Admin, error) {
	rows, err := db.Query(
		`SELECT `+adminCols+` FROM admins WHERE family_id = ? ORDER BY created_at ASC, email ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, *a)
	}
	return admins, rows.Err()
}

func (s *AdminStore) Create(familyID, email, passwordHash string) (*model.Admin, error) {
	return insertAdmin(s.db, familyID, email, passwordHash)
}

func (s *AdminStore) GetByID(id string) (*model.Admin, error) {
	row := s.db.QueryRow(`SELECT `+adminCols+` FROM admins WHERE id = ?`, id)
	a, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return a, nil
}

// ListByEmail returns every admin account registered with the email, across families.
func (s *AdminStore) ListByEmail(email string) ([]model.Admin, error) {
	rows, err := s.db.Query(
		`SELECT `+adminCols+` FROM admins WHERE email = ? ORDER BY created_at ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list admins by email: %w", err)
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		admins = append(admins, *a)
	}
	return admins, rows.Err()
}

func (s *AdminStore) EmailExists(familyID, email string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM admins WHERE family_id = ? AND email = ?`,
		familyID, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check admin email: %w", err)
	}
	return count > 0, nil
}

// Delete removes an admin unless it is the last one in its family. The count
// and delete share a transaction so two concurrent removals cannot empty a family.
func (s *AdminStore) Delete(familyID, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM admins WHERE family_id = ?`, familyID).Scan(&count); err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count <= 1 {
		return ErrLastAdmin
	}

	result, err := tx.Exec(`DELETE FROM admins WHERE id = ? AND family_id = ?`, id, familyID)
	if err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("delete admin: %w", err)
	}
	return tx.Commit()
}
