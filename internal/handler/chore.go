package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
)

type ChoreHandler struct {
	familyStore *store.FamilyStore
	choreStore  *store.ChoreStore
	logger      *slog.Logger
}

func NewChoreHandler(fs *store.FamilyStore, cs *store.ChoreStore, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{familyStore: fs, choreStore: cs, logger: logger}
}

type choreRequest struct {
	Label string `json:"label"`
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, false)
	if !ok {
		return
	}

	chores, err := h.choreStore.List(familyID)
	if err != nil {
		h.logger.Error("list chores", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list chores")
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, true)
	if !ok {
		return
	}

	var req choreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}

	exists, err := h.choreStore.LabelExists(familyID, req.Label, "")
	if err != nil {
		h.logger.Error("check chore label", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check label")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "a chore with that label already exists")
		return
	}

	chore, err := h.choreStore.Create(familyID, req.Label)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "a chore with that label already exists")
		return
	}
	if err != nil {
		h.logger.Error("create chore", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create chore")
		return
	}
	writeJSON(w, http.StatusCreated, chore)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("get chore", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	if !guardRecord(w, r, existing.FamilyID, true, "chore not found") {
		return
	}

	var req choreRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}

	exists, err := h.choreStore.LabelExists(existing.FamilyID, req.Label, id)
	if err != nil {
		h.logger.Error("check chore label", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check label")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "a chore with that label already exists")
		return
	}

	chore, err := h.choreStore.Update(id, req.Label)
	switch {
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "a chore with that label already exists")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "chore not found")
		return
	case err != nil:
		h.logger.Error("update chore", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update chore")
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.choreStore.GetByID(id)
	if err != nil {
		h.logger.Error("get chore", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	if !guardRecord(w, r, existing.FamilyID, true, "chore not found") {
		return
	}

	err = h.choreStore.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "chore not found")
		return
	}
	if err != nil {
		h.logger.Error("delete chore", "chore_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete chore")
		return
	}
	writeMessage(w, "chore deleted")
}
