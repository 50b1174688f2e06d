package store

import (
	"errors"
	"testing"
)

func TestFamilyCreateSeedsDefaults(t *testing.T) {
	db := setupTestDB(t)
	fs := NewFamilyStore(db)

	family, admin, err := fs.Create("Smith Family", "admin@x.com", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if family.Name != "Smith Family" {
		t.Errorf("name = %q, want %q", family.Name, "Smith Family")
	}
	if admin.FamilyID != family.ID {
		t.Errorf("admin family = %q, want %q", admin.FamilyID, family.ID)
	}

	snap, err := fs.Snapshot(family.ID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Admins) != 1 || snap.Admins[0].Email != "admin@x.com" {
		t.Errorf("admins = %+v", snap.Admins)
	}

	want := []string{"Dishes", "Laundry", "Trash", "Vacuum"}
	if len(snap.Chores) != len(want) {
		t.Fatalf("chores = %d, want %d", len(snap.Chores), len(want))
	}
	for i, label := range want {
		if snap.Chores[i].Label != label {
			t.Errorf("chore[%d] = %q, want %q", i, snap.Chores[i].Label, label)
		}
	}
	if snap.People == nil || snap.Assignments == nil {
		t.Error("empty collections should be non-nil")
	}
}

func TestFamilySnapshotMissing(t *testing.T) {
	fs := NewFamilyStore(setupTestDB(t))

	snap, err := fs.Snapshot("nope")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestFamilyRename(t *testing.T) {
	db := setupTestDB(t)
	fs := NewFamilyStore(db)
	family, _ := createTestFamily(t, db, "Smith Family")

	renamed, err := fs.Rename(family.ID, "The Smiths")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "The Smiths" {
		t.Errorf("name = %q, want %q", renamed.Name, "The Smiths")
	}

	if _, err := fs.Rename("nope", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rename missing: err = %v, want ErrNotFound", err)
	}
}

func TestFamilyDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	fs := NewFamilyStore(db)
	ps := NewPersonStore(db)
	cs := NewChoreStore(db)
	as := NewAssignmentStore(db)

	family, admin := createTestFamily(t, db, "Smith Family")
	person, err := ps.Create(family.ID, "Jo", "jo@x.com", nil, "")
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	chores, _ := cs.List(family.ID)
	assignment, err := as.Create(family.ID, person.ID, chores[0].ID, "2026-02-15", 1)
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	if err := fs.Delete(family.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if f, _ := fs.GetByID(family.ID); f != nil {
		t.Error("family should be gone")
	}
	if a, _ := NewAdminStore(db).GetByID(admin.ID); a != nil {
		t.Error("admin should be gone")
	}
	if p, _ := ps.GetByID(person.ID); p != nil {
		t.Error("person should be gone")
	}
	if c, _ := cs.GetByID(chores[0].ID); c != nil {
		t.Error("chore should be gone")
	}
	if a, _ := as.GetByID(assignment.ID); a != nil {
		t.Error("assignment should be gone")
	}

	if err := fs.Delete(family.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestFamiliesAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	a, _ := createTestFamily(t, db, "A")
	b, _ := createTestFamily(t, db, "B")

	if a.ID == b.ID {
		t.Fatal("ids should differ")
	}
	if err := NewFamilyStore(db).Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	chores, err := NewChoreStore(db).List(b.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(chores) != 4 {
		t.Errorf("family B chores = %d, want 4", len(chores))
	}
}
