package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorechart/internal/calendar"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
)

// CalendarHandler serves precomputed week and month grids for a family.
type CalendarHandler struct {
	familyStore     *store.FamilyStore
	personStore     *store.PersonStore
	choreStore      *store.ChoreStore
	assignmentStore *store.AssignmentStore
	logger          *slog.Logger
}

func NewCalendarHandler(fs *store.FamilyStore, ps *store.PersonStore, cs *store.ChoreStore, as *store.AssignmentStore, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{familyStore: fs, personStore: ps, choreStore: cs, assignmentStore: as, logger: logger}
}

func (h *CalendarHandler) loadRoster(w http.ResponseWriter, familyID string) ([]model.Person, []model.Chore, bool) {
	people, err := h.personStore.List(familyID)
	if err != nil {
		h.logger.Error("list people", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list people")
		return nil, nil, false
	}
	chores, err := h.choreStore.List(familyID)
	if err != nil {
		h.logger.Error("list chores", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list chores")
		return nil, nil, false
	}
	return people, chores, true
}

// Week returns the grid for the week containing the date in the path.
func (h *CalendarHandler) Week(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, false)
	if !ok {
		return
	}

	date, err := calendar.ParseISODate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	start := calendar.WeekStart(date)

	people, chores, ok := h.loadRoster(w, familyID)
	if !ok {
		return
	}
	assignments, err := h.assignmentStore.ListByWeek(familyID, calendar.FormatISO(start))
	if err != nil {
		h.logger.Error("list assignments", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}

	writeJSON(w, http.StatusOK, calendar.BuildWeek(start, people, chores, calendar.NewIndex(assignments)))
}

// Month returns one grid row per week overlapping the month in the path.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	familyID, ok := scope(w, r, h.familyStore, h.logger, false)
	if !ok {
		return
	}

	month, err := calendar.ParseMonth(r.PathValue("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	people, chores, ok := h.loadRoster(w, familyID)
	if !ok {
		return
	}

	rows := calendar.MonthMatrix(month)
	from := calendar.FormatISO(rows[0][0])
	to := calendar.FormatISO(rows[len(rows)-1][0])
	assignments, err := h.assignmentStore.ListByWeekRange(familyID, from, to)
	if err != nil {
		h.logger.Error("list assignments", "family_id", familyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}

	writeJSON(w, http.StatusOK, calendar.BuildMonth(month, people, chores, calendar.NewIndex(assignments)))
}
