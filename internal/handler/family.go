package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
)

type FamilyHandler struct {
	familyStore *store.FamilyStore
	adminStore  *store.AdminStore
	tokens      *auth.TokenService
	logger      *slog.Logger
}

func NewFamilyHandler(fs *store.FamilyStore, as *store.AdminStore, tokens *auth.TokenService, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{familyStore: fs, adminStore: as, tokens: tokens, logger: logger}
}

type createFamilyResponse struct {
	Token  string                `json:"token"`
	Family *model.FamilySnapshot `json:"family"`
}

const passwordTooLongMsg = "password must be at most 72 bytes"

// Create registers a family with its first admin and signs that admin in.
func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		AdminEmail    string `json:"adminEmail"`
		AdminPassword string `json:"adminPassword"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.AdminEmail = normalizeEmail(req.AdminEmail)
	if req.Name == "" || req.AdminEmail == "" || strings.TrimSpace(req.AdminPassword) == "" {
		writeError(w, http.StatusBadRequest, "name, adminEmail and adminPassword are required")
		return
	}
	if !validEmail(req.AdminEmail) {
		writeError(w, http.StatusBadRequest, "adminEmail must be a valid email address")
		return
	}
	if len(req.AdminPassword) > auth.MaxPasswordBytes {
		writeError(w, http.StatusBadRequest, passwordTooLongMsg)
		return
	}

	hash, err := auth.HashPassword(req.AdminPassword)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		writeError(w, http.StatusBadRequest, passwordTooLongMsg)
		return
	}
	if err != nil {
		h.logger.Error("hash admin password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create family")
		return
	}

	family, admin, err := h.familyStore.Create(req.Name, req.AdminEmail, hash)
	if err != nil {
		h.logger.Error("create family", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create family")
		return
	}

	snapshot, err := h.familyStore.Snapshot(family.ID)
	if err != nil || snapshot == nil {
		h.logger.Error("load new family", "family_id", family.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load family")
		return
	}

	token, err := h.tokens.Issue(auth.Principal{Role: auth.RoleAdmin, ID: admin.ID, FamilyID: family.ID})
	if err != nil {
		h.logger.Error("issue admin token", "admin_id", admin.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create family")
		return
	}

	h.logger.Info("family created", "family_id", family.ID, "admin_id", admin.ID)
	writeJSON(w, http.StatusCreated, createFamilyResponse{Token: token, Family: snapshot})
}

func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("id")
	if _, ok := guard(w, r, familyID, false); !ok {
		return
	}

	snapshot, err := h.familyStore.Snapshot(familyID)
	if err != nil {
		h.logger.Error("load family", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get family")
		return
	}
	if snapshot == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *FamilyHandler) Rename(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("id")
	if _, ok := guard(w, r, familyID, true); !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	family, err := h.familyStore.Rename(familyID, req.Name)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}
	if err != nil {
		h.logger.Error("rename family", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update family")
		return
	}
	writeJSON(w, http.StatusOK, family)
}

// Delete removes the family and everything that belongs to it.
func (h *FamilyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("id")
	if _, ok := guard(w, r, familyID, true); !ok {
		return
	}

	err := h.familyStore.Delete(familyID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}
	if err != nil {
		h.logger.Error("delete family", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete family")
		return
	}

	h.logger.Info("family deleted", "family_id", familyID)
	writeMessage(w, "family deleted")
}

func (h *FamilyHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, true)
	if !ok {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || strings.TrimSpace(req.Password) == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if !validEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "email must be a valid email address")
		return
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		writeError(w, http.StatusBadRequest, passwordTooLongMsg)
		return
	}

	exists, err := h.adminStore.EmailExists(familyID, req.Email)
	if err != nil {
		h.logger.Error("check admin email", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check email")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "an admin with that email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		writeError(w, http.StatusBadRequest, passwordTooLongMsg)
		return
	}
	if err != nil {
		h.logger.Error("hash admin password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create admin")
		return
	}

	admin, err := h.adminStore.Create(familyID, req.Email, hash)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "an admin with that email already exists")
		return
	}
	if err != nil {
		h.logger.Error("create admin", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create admin")
		return
	}
	writeJSON(w, http.StatusCreated, admin)
}

// RemoveAdmin deletes another admin of the family. Admins cannot remove
// themselves and the last admin cannot be removed.
func (h *FamilyHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("id")
	p, ok := guard(w, r, familyID, true)
	if !ok {
		return
	}

	adminID := r.PathValue("adminId")
	if adminID == p.ID {
		writeError(w, http.StatusBadRequest, "cannot remove yourself")
		return
	}

	target, err := h.adminStore.GetByID(adminID)
	if err != nil {
		h.logger.Error("get admin", "admin_id", adminID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get admin")
		return
	}
	if target == nil || target.FamilyID != familyID {
		writeError(w, http.StatusNotFound, "admin not found")
		return
	}

	err = h.adminStore.Delete(familyID, adminID)
	switch {
	case errors.Is(err, store.ErrLastAdmin):
		writeError(w, http.StatusBadRequest, "cannot remove the last admin")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "admin not found")
		return
	case err != nil:
		h.logger.Error("delete admin", "admin_id", adminID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove admin")
		return
	}

	h.logger.Info("admin removed", "family_id", familyID, "admin_id", adminID, "by", p.ID)
	writeMessage(w, "admin removed")
}
