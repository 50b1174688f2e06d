package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/email"
	"github.com/dukerupert/chorechart/internal/handler"
	"github.com/dukerupert/chorechart/internal/middleware"
	"github.com/dukerupert/chorechart/internal/store"
)

type Server struct {
	db          *sql.DB
	tokens      *auth.TokenService
	sessions    *store.SessionStore
	authH       *handler.AuthHandler
	familyH     *handler.FamilyHandler
	personH     *handler.PersonHandler
	choreH      *handler.ChoreHandler
	assignmentH *handler.AssignmentHandler
	calendarH   *handler.CalendarHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New wires the stores and handlers. loginLimit caps requests per minute per
// client on the unauthenticated routes. mailer may be nil or unconfigured.
func New(db *sql.DB, tokens *auth.TokenService, loginLimit int, mailer *email.Client, logger *slog.Logger) *Server {
	familyStore := store.NewFamilyStore(db)
	adminStore := store.NewAdminStore(db)
	personStore := store.NewPersonStore(db)
	choreStore := store.NewChoreStore(db)
	assignmentStore := store.NewAssignmentStore(db)

	var notifier handler.WelcomeNotifier
	if mailer.Configured() {
		notifier = mailer
	}

	return &Server{
		db:          db,
		tokens:      tokens,
		sessions:    store.NewSessionStore(db),
		authH:       handler.NewAuthHandler(adminStore, personStore, tokens, logger.With("component", "auth")),
		familyH:     handler.NewFamilyHandler(familyStore, adminStore, tokens, logger.With("component", "family")),
		personH:     handler.NewPersonHandler(familyStore, personStore, notifier, logger.With("component", "person")),
		choreH:      handler.NewChoreHandler(familyStore, choreStore, logger.With("component", "chore")),
		assignmentH: handler.NewAssignmentHandler(familyStore, personStore, choreStore, assignmentStore, logger.With("component", "assignment")),
		calendarH:   handler.NewCalendarHandler(familyStore, personStore, choreStore, assignmentStore, logger.With("component", "calendar")),
		rateLimiter: middleware.NewRateLimiter(loginLimit, time.Minute),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	limited := middleware.RateLimit(s.rateLimiter)
	outerMux.Handle("POST /auth/admin/login", limited(http.HandlerFunc(s.authH.AdminLogin)))
	outerMux.Handle("POST /auth/user/login", limited(http.HandlerFunc(s.authH.UserLogin)))
	outerMux.Handle("POST /families", limited(http.HandlerFunc(s.familyH.Create)))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Everything else needs a bearer token
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", middleware.RequireAuth(s.tokens, s.sessions)(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /auth/me", s.authH.Me)

	// Families
	mux.HandleFunc("GET /families/{id}", s.familyH.Get)
	mux.HandleFunc("PUT /families/{id}", s.familyH.Rename)
	mux.HandleFunc("DELETE /families/{id}", s.familyH.Delete)
	mux.HandleFunc("POST /families/{id}/admins", s.familyH.AddAdmin)
	mux.HandleFunc("DELETE /families/{id}/admins/{adminId}", s.familyH.RemoveAdmin)

	// People
	mux.HandleFunc("GET /people/family/{id}", s.personH.List)
	mux.HandleFunc("POST /people/family/{id}", s.personH.Create)
	mux.HandleFunc("PUT /people/{id}", s.personH.Update)
	mux.HandleFunc("DELETE /people/{id}", s.personH.Delete)

	// Chores
	mux.HandleFunc("GET /chores/family/{id}", s.choreH.List)
	mux.HandleFunc("POST /chores/family/{id}", s.choreH.Create)
	mux.HandleFunc("PUT /chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /chores/{id}", s.choreH.Delete)

	// Assignments
	mux.HandleFunc("GET /assignments/family/{id}/week/{weekStartISO}", s.assignmentH.ListWeek)
	mux.HandleFunc("POST /assignments/family/{id}", s.assignmentH.Create)
	mux.HandleFunc("POST /assignments/family/{id}/week", s.assignmentH.CreateWeek)
	mux.HandleFunc("POST /assignments/family/{id}/repeat", s.assignmentH.CreateRepeating)
	mux.HandleFunc("DELETE /assignments/{id}", s.assignmentH.Delete)

	// Calendar grids
	mux.HandleFunc("GET /calendar/family/{id}/week/{date}", s.calendarH.Week)
	mux.HandleFunc("GET /calendar/family/{id}/month/{month}", s.calendarH.Month)
}
