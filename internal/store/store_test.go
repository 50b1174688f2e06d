package store

import (
	"database/sql"
	"testing"

	"github.com/dukerupert/chorechart/internal/database"
	"github.com/dukerupert/chorechart/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestFamily(t *testing.T, db *sql.DB, name string) (*model.Family, *model.Admin) {
	t.Helper()
	family, admin, err := NewFamilyStore(db).Create(name, "admin@x.com", "hash")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	return family, admin
}
