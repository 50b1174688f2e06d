package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorechart/internal/auth"
)

// SessionStore confirms that a token's principal still exists.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Active reports whether the admin or person behind p is still a record of
// p's family. Removed admins, deleted people and deleted families are inactive.
func (s *SessionStore) Active(p auth.Principal) (bool, error) {
	var table string
	switch p.Role {
	case auth.RoleAdmin:
		table = "admins"
	case auth.RoleMember:
		table = "people"
	default:
		return false, nil
	}

	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM `+table+` WHERE id = ? AND family_id = ?`,
		p.ID, p.FamilyID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check %s session: %w", p.Role, err)
	}
	return count > 0, nil
}
