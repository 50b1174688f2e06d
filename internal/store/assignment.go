package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/google/uuid"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	err := scanner.Scan(&a.ID, &a.FamilyID, &a.PersonID, &a.ChoreID, &a.WeekStartISO, &a.DayIndex, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const assignmentCols = `id, family_id, person_id, chore_id, week_start_iso, day_index, created_at`

func listAssignments(db execer, where string, args ...any) ([]model.Assignment, error) {
	rows, err := db.Query(`SELECT `+assignmentCols+` FROM assignments `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func (s *AssignmentStore) Create(familyID, personID, choreID, weekStartISO string, dayIndex int) (*model.Assignment, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO assignments (id, family_id, person_id, chore_id, week_start_iso, day_index) VALUES (?, ?, ?, ?, ?, ?)`,
		id, familyID, personID, choreID, weekStartISO, dayIndex,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("insert assignment: %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return s.GetByID(id)
}

// Slot is one cell of the chart: a week and a day within it.
type Slot struct {
	WeekStartISO string
	DayIndex     int
}

// CreateWeek assigns the chore to the person on every day of the week. Days that
// already carry the assignment are skipped; only newly inserted rows are returned.
func (s *AssignmentStore) CreateWeek(familyID, personID, choreID, weekStartISO string) ([]model.Assignment, error) {
	slots := make([]Slot, 7)
	for day := range slots {
		slots[day] = Slot{WeekStartISO: weekStartISO, DayIndex: day}
	}
	return s.CreateMany(familyID, personID, choreID, slots)
}

// CreateMany inserts the assignment into every slot in one transaction,
// skipping slots that already hold it. The result is never nil.
func (s *AssignmentStore) CreateMany(familyID, personID, choreID string, slots []Slot) ([]model.Assignment, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var ids []string
	for _, slot := range slots {
		id := uuid.NewString()
		result, err := tx.Exec(
			`INSERT INTO assignments (id, family_id, person_id, chore_id, week_start_iso, day_index)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (family_id, person_id, week_start_iso, day_index, chore_id) DO NOTHING`,
			id, familyID, personID, choreID, slot.WeekStartISO, slot.DayIndex,
		)
		if err != nil {
			return nil, fmt.Errorf("insert assignment for %s/%d: %w", slot.WeekStartISO, slot.DayIndex, err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		} else if n > 0 {
			ids = append(ids, id)
		}
	}

	created := make([]model.Assignment, 0, len(ids))
	for _, id := range ids {
		a, err := scanAssignment(tx.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id))
		if err != nil {
			return nil, fmt.Errorf("get assignment: %w", err)
		}
		created = append(created, *a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (s *AssignmentStore) GetByID(id string) (*model.Assignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

func (s *AssignmentStore) ListByWeek(familyID, weekStartISO string) ([]model.Assignment, error) {
	return listAssignments(s.db,
		`WHERE family_id = ? AND week_start_iso = ? ORDER BY day_index ASC, created_at ASC`,
		familyID, weekStartISO,
	)
}

// ListByWeekRange returns assignments whose week starts within [fromISO, toISO].
// ISO dates compare correctly as text.
func (s *AssignmentStore) ListByWeekRange(familyID, fromISO, toISO string) ([]model.Assignment, error) {
	return listAssignments(s.db,
		`WHERE family_id = ? AND week_start_iso BETWEEN ? AND ? ORDER BY week_start_iso ASC, day_index ASC, created_at ASC`,
		familyID, fromISO, toISO,
	)
}

func (s *AssignmentStore) Exists(familyID, personID, choreID, weekStartISO string, dayIndex int) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM assignments
		 WHERE family_id = ? AND person_id = ? AND chore_id = ? AND week_start_iso = ? AND day_index = ?`,
		familyID, personID, choreID, weekStartISO, dayIndex,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return count > 0, nil
}

func (s *AssignmentStore) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
