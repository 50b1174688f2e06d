package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/store"
)

var (
	hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	emailRegexp    = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// validEmail reports whether an already normalized address looks like local@domain.
func validEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// trimOptional trims s and maps an empty result to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// guard authorizes the request's principal against familyID, writing a 401 or
// 403 when it fails.
func guard(w http.ResponseWriter, r *http.Request, familyID string, mutating bool) (auth.Principal, bool) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return p, false
	}
	switch err := auth.Authorize(p, familyID, mutating); {
	case err == nil:
		return p, true
	case errors.Is(err, auth.ErrOtherFamily):
		writeError(w, http.StatusForbidden, "access denied for this family")
	default:
		writeError(w, http.StatusForbidden, "admin access required")
	}
	return p, false
}

// guardRecord authorizes access to a record owned by familyID. Records of
// another family answer with notFound so their ids are not confirmed.
func guardRecord(w http.ResponseWriter, r *http.Request, familyID string, mutating bool, notFound string) bool {
	if p, ok := auth.FromContext(r.Context()); ok && p.FamilyID != familyID {
		writeError(w, http.StatusNotFound, notFound)
		return false
	}
	_, ok := guard(w, r, familyID, mutating)
	return ok
}

// scope authorizes the caller for the family named in the path and confirms
// the family still exists.
func scope(w http.ResponseWriter, r *http.Request, families *store.FamilyStore, logger *slog.Logger, mutating bool) (string, bool) {
	familyID := r.PathValue("id")
	if _, ok := guard(w, r, familyID, mutating); !ok {
		return "", false
	}
	family, err := families.GetByID(familyID)
	if err != nil {
		logger.Error("get family", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get family")
		return "", false
	}
	if family == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return "", false
	}
	return familyID, true
}
