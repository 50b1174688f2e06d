package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorechart/internal/auth"
)

// TokenVerifier turns a bearer token into a Principal.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// SessionChecker reports whether a verified principal still exists.
type SessionChecker interface {
	Active(p auth.Principal) (bool, error)
}

// RequireAuth validates the bearer token, confirms its principal has not been
// removed, and stores the Principal in the request context. Every rejection
// is a 401.
func RequireAuth(tokens TokenVerifier, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			p, err := tokens.Verify(token)
			if errors.Is(err, auth.ErrExpiredToken) {
				unauthorized(w, "token expired")
				return
			}
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			active, err := sessions.Active(p)
			if err != nil {
				slog.Error("check session", "role", p.Role, "principal_id", p.ID, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to check session")
				return
			}
			if !active {
				unauthorized(w, "session revoked")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="chorechart"`)
	writeError(w, http.StatusUnauthorized, msg)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
