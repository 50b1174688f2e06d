package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
)

// WelcomeNotifier tells a newly added person they are on the chart.
type WelcomeNotifier interface {
	SendWelcome(ctx context.Context, toEmail, personName, familyName string) error
}

const welcomeTimeout = 15 * time.Second

type PersonHandler struct {
	familyStore *store.FamilyStore
	personStore *store.PersonStore
	notifier    WelcomeNotifier
	logger      *slog.Logger
}

// NewPersonHandler creates the handler. notifier may be nil, in which case no
// welcome mail is sent.
func NewPersonHandler(fs *store.FamilyStore, ps *store.PersonStore, notifier WelcomeNotifier, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{familyStore: fs, personStore: ps, notifier: notifier, logger: logger}
}

// welcome sends the notice in the background. Failures are logged and never
// reach the client.
func (h *PersonHandler) welcome(ctx context.Context, person *model.Person) {
	if h.notifier == nil {
		return
	}
	family, err := h.familyStore.GetByID(person.FamilyID)
	if err != nil || family == nil {
		h.logger.Warn("welcome skipped: family lookup failed", "family_id", person.FamilyID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeTimeout)
	go func() {
		defer cancel()
		if err := h.notifier.SendWelcome(ctx, person.Email, person.Name, family.Name); err != nil {
			h.logger.Warn("welcome email failed", "person_id", person.ID, "error", err)
			return
		}
		h.logger.Info("welcome email sent", "person_id", person.ID)
	}()
}

type personRequest struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
	Color string  `json:"color"`
}

// validate normalizes the request in place and returns a client-facing
// message when it is unusable.
func (req *personRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Phone = trimOptional(req.Phone)
	req.Color = strings.TrimSpace(req.Color)

	if req.Name == "" || req.Email == "" {
		return "name and email are required"
	}
	if !validEmail(req.Email) {
		return "email must be a valid email address"
	}
	if req.Color != "" && !hexColorRegexp.MatchString(req.Color) {
		return "color must be a hex color (e.g. #FF0000)"
	}
	return ""
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, false)
	if !ok {
		return
	}

	people, err := h.personStore.List(familyID)
	if err != nil {
		h.logger.Error("list people", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list people")
		return
	}
	if people == nil {
		people = []model.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, true)
	if !ok {
		return
	}

	var req personRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	exists, err := h.personStore.EmailExists(familyID, req.Email, "")
	if err != nil {
		h.logger.Error("check person email", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check email")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "a person with that email already exists")
		return
	}

	person, err := h.personStore.Create(familyID, req.Name, req.Email, req.Phone, req.Color)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "a person with that email already exists")
		return
	}
	if err != nil {
		h.logger.Error("create person", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create person")
		return
	}
	h.welcome(r.Context(), person)
	writeJSON(w, http.StatusCreated, person)
}

// Update replaces a person's details. An empty color keeps the current one.
func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.personStore.GetByID(id)
	if err != nil {
		h.logger.Error("get person", "person_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get person")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	if !guardRecord(w, r, existing.FamilyID, true, "person not found") {
		return
	}

	var req personRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Color == "" {
		req.Color = existing.Color
	}

	exists, err := h.personStore.EmailExists(existing.FamilyID, req.Email, id)
	if err != nil {
		h.logger.Error("check person email", "person_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check email")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "a person with that email already exists")
		return
	}

	person, err := h.personStore.Update(id, req.Name, req.Email, req.Phone, req.Color)
	switch {
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "a person with that email already exists")
		return
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "person not found")
		return
	case err != nil:
		h.logger.Error("update person", "person_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update person")
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// Delete removes a person along with their assignments.
func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.personStore.GetByID(id)
	if err != nil {
		h.logger.Error("get person", "person_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get person")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	if !guardRecord(w, r, existing.FamilyID, true, "person not found") {
		return
	}

	err = h.personStore.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		h.logger.Error("delete person", "person_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete person")
		return
	}
	writeMessage(w, "person deleted")
}
