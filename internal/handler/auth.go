package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorechart/internal/auth"
	"github.com/dukerupert/chorechart/internal/model"
	"github.com/dukerupert/chorechart/internal/store"
)

type AuthHandler struct {
	adminStore  *store.AdminStore
	personStore *store.PersonStore
	tokens      *auth.TokenService
	logger      *slog.Logger
}

func NewAuthHandler(as *store.AdminStore, ps *store.PersonStore, tokens *auth.TokenService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{adminStore: as, personStore: ps, tokens: tokens, logger: logger}
}

type adminLoginResponse struct {
	Token string       `json:"token"`
	Admin *model.Admin `json:"admin"`
}

type userLoginResponse struct {
	Token  string        `json:"token"`
	Person *model.Person `json:"person"`
}

// AdminLogin checks an email and password against every family's admins and
// signs in to the first family whose hash matches.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
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

	admins, err := h.adminStore.ListByEmail(req.Email)
	if err != nil {
		h.logger.Error("admin login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	var admin *model.Admin
	for i := range admins {
		if auth.CheckPassword(admins[i].PasswordHash, req.Password) {
			admin = &admins[i]
			break
		}
	}
	if admin == nil {
		h.logger.Warn("admin login failed", "email", req.Email)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Issue(auth.Principal{Role: auth.RoleAdmin, ID: admin.ID, FamilyID: admin.FamilyID})
	if err != nil {
		h.logger.Error("issue admin token", "admin_id", admin.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.logger.Info("admin logged in", "admin_id", admin.ID, "family_id", admin.FamilyID)
	writeJSON(w, http.StatusOK, adminLoginResponse{Token: token, Admin: admin})
}

// UserLogin signs a family member in by email alone. Members get read-only
// access to their family.
func (h *AuthHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	people, err := h.personStore.ListByEmail(req.Email)
	if err != nil {
		h.logger.Error("user login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if len(people) == 0 {
		writeError(w, http.StatusNotFound, "no family member with that email")
		return
	}
	person := &people[0]

	token, err := h.tokens.Issue(auth.Principal{Role: auth.RoleMember, ID: person.ID, FamilyID: person.FamilyID})
	if err != nil {
		h.logger.Error("issue member token", "person_id", person.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	h.logger.Info("member logged in", "person_id", person.ID, "family_id", person.FamilyID)
	writeJSON(w, http.StatusOK, userLoginResponse{Token: token, Person: person})
}

// Me echoes the caller's session principal.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
