package auth

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when a principal may not touch a family's records.
// The two causes below both wrap it.
var (
	ErrForbidden     = errors.New("forbidden")
	ErrOtherFamily   = fmt.Errorf("%w: principal belongs to another family", ErrForbidden)
	ErrAdminRequired = fmt.Errorf("%w: admin role required", ErrForbidden)
)

// Authorize checks that p belongs to familyID and, for mutations, is an admin.
func Authorize(p Principal, familyID string, mutating bool) error {
	if p.FamilyID == "" || p.FamilyID != familyID {
		return ErrOtherFamily
	}
	if mutating && !p.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}
