package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorechart/internal/calendar"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/recurrence"
	"github.com/dukerupert/chorechart/internal/store"
)

type AssignmentHandler struct {
	familyStore     *store.FamilyStore
	personStore     *store.PersonStore
	choreStore      *store.ChoreStore
	assignmentStore *store.AssignmentStore
	logger          *slog.Logger
}

func NewAssignmentHandler(fs *store.FamilyStore, ps *store.PersonStore, cs *store.ChoreStore, as *store.AssignmentStore, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{familyStore: fs, personStore: ps, choreStore: cs, assignmentStore: as, logger: logger}
}

type assignmentRequest struct {
	PersonID     string `json:"personId"`
	ChoreID      string `json:"choreId"`
	WeekStartISO string `json:"weekStartISO"`
	DayIndex     *int   `json:"dayIndex"`
}

// validate trims the ids and moves WeekStartISO to the Sunday of its week.
func (req *assignmentRequest) validate(needDay bool) string {
	req.PersonID = strings.TrimSpace(req.PersonID)
	req.ChoreID = strings.TrimSpace(req.ChoreID)
	req.WeekStartISO = strings.TrimSpace(req.WeekStartISO)

	if req.PersonID == "" || req.ChoreID == "" || req.WeekStartISO == "" {
		return "personId, choreId and weekStartISO are required"
	}
	week, err := calendar.NormalizeWeekStart(req.WeekStartISO)
	if err != nil {
		return "weekStartISO must be a date (YYYY-MM-DD)"
	}
	req.WeekStartISO = week

	if needDay {
		if req.DayIndex == nil {
			return "dayIndex is required"
		}
		if *req.DayIndex < 0 || *req.DayIndex > 6 {
			return "dayIndex must be between 0 and 6"
		}
	}
	return ""
}

// checkMembers confirms the person and chore both belong to the family.
func (h *AssignmentHandler) checkMembers(w http.ResponseWriter, familyID, personID, choreID string) bool {
	person, err := h.personStore.GetByID(personID)
	if err != nil {
		h.logger.Error("get person", "person_id", personID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get person")
		return false
	}
	if person == nil || person.FamilyID != familyID {
		writeError(w, http.StatusNotFound, "person not found in family")
		return false
	}

	chore, err := h.choreStore.GetByID(choreID)
	if err != nil {
		h.logger.Error("get chore", "chore_id", choreID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get chore")
		return false
	}
	if chore == nil || chore.FamilyID != familyID {
		writeError(w, http.StatusNotFound, "chore not found in family")
		return false
	}
	return true
}

func (h *AssignmentHandler) ListWeek(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, false)
	if !ok {
		return
	}

	week, err := calendar.NormalizeWeekStart(r.PathValue("weekStartISO"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "weekStartISO must be a date (YYYY-MM-DD)")
		return
	}

	assignments, err := h.assignmentStore.ListByWeek(familyID, week)
	if err != nil {
		h.logger.Error("list assignments", "family_id", familyID, "week", week, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []model.Assignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, true)
	if !ok {
		return
	}

	var req assignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(true); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if !h.checkMembers(w, familyID, req.PersonID, req.ChoreID) {
		return
	}

	exists, err := h.assignmentStore.Exists(familyID, req.PersonID, req.ChoreID, req.WeekStartISO, *req.DayIndex)
	if err != nil {
		h.logger.Error("check assignment", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to check assignment")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "assignment already exists")
		return
	}

	assignment, err := h.assignmentStore.Create(familyID, req.PersonID, req.ChoreID, req.WeekStartISO, *req.DayIndex)
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "assignment already exists")
		return
	}
	if err != nil {
		h.logger.Error("create assignment", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

// CreateWeek assigns the chore on all seven days. Days already assigned are
// skipped, so the result may be shorter than seven or empty.
func (h *AssignmentHandler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, true)
	if !ok {
		return
	}

	var req assignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(false); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if !h.checkMembers(w, familyID, req.PersonID, req.ChoreID) {
		return
	}

	created, err := h.assignmentStore.CreateWeek(familyID, req.PersonID, req.ChoreID, req.WeekStartISO)
	if err != nil {
		h.logger.Error("create week assignments", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create assignments")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type repeatRequest struct {
	PersonID string `json:"personId"`
	ChoreID  string `json:"choreId"`
	Rule     string `json:"rule"`
	From     string `json:"from"`
	Until    string `json:"until"`
}

type repeatResponse struct {
	Rule        string             `json:"rule"`
	Description string             `json:"description"`
	Assignments []model.Assignment `json:"assignments"`
}

// CreateRepeating expands an RRULE between from and until and assigns the chore
// on every resulting day. Slots already holding the assignment are skipped.
func (h *AssignmentHandler) CreateRepeating(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, true)
	if !ok {
		return
	}

	var req repeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PersonID = strings.TrimSpace(req.PersonID)
	req.ChoreID = strings.TrimSpace(req.ChoreID)
	if req.PersonID == "" || req.ChoreID == "" || strings.TrimSpace(req.Rule) == "" || strings.TrimSpace(req.From) == "" {
		writeError(w, http.StatusBadRequest, "personId, choreId, rule and from are required")
		return
	}

	rule, err := recurrence.Parse(req.Rule)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, err := calendar.ParseISODate(strings.TrimSpace(req.From))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be a date (YYYY-MM-DD)")
		return
	}

	until := from.AddDate(0, 0, recurrence.MaxSpan-1)
	if s := strings.TrimSpace(req.Until); s != "" {
		if until, err = calendar.ParseISODate(s); err != nil {
			writeError(w, http.StatusBadRequest, "until must be a date (YYYY-MM-DD)")
			return
		}
		if until.Before(from) {
			writeError(w, http.StatusBadRequest, "until must not be before from")
			return
		}
		if until.Sub(from).Hours()/24 >= recurrence.MaxSpan {
			writeError(w, http.StatusBadRequest, "range may span at most 366 days")
			return
		}
	} else if rule.Count == 0 && rule.Until == nil {
		writeError(w, http.StatusBadRequest, "until is required unless the rule has COUNT or UNTIL")
		return
	}

	if !h.checkMembers(w, familyID, req.PersonID, req.ChoreID) {
		return
	}

	dates := recurrence.Dates(rule, from, until)
	slots := make([]store.Slot, len(dates))
	for i, d := range dates {
		slots[i] = store.Slot{
			WeekStartISO: calendar.FormatISO(calendar.WeekStart(d)),
			DayIndex:     calendar.DayIndex(d),
		}
	}

	created, err := h.assignmentStore.CreateMany(familyID, req.PersonID, req.ChoreID, slots)
	if err != nil {
		h.logger.Error("create repeating assignments", "family_id", familyID, "rule", rule.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create assignments")
		return
	}

	h.logger.Info("repeating assignments created", "family_id", familyID, "rule", rule.String(), "slots", len(slots), "created", len(created))
	writeJSON(w, http.StatusCreated, repeatResponse{
		Rule:        rule.String(),
		Description: rule.Describe(),
		Assignments: created,
	})
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.assignmentStore.GetByID(id)
	if err != nil {
		h.logger.Error("get assignment", "assignment_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get assignment")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}
	if !guardRecord(w, r, existing.FamilyID, true, "assignment not found") {
		return
	}

	err = h.assignmentStore.Delete(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "assignment not found")
		return
	}
	if err != nil {
		h.logger.Error("delete assignment", "assignment_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete assignment")
		return
	}
	writeMessage(w, "assignment deleted")
}
