package auth

import "context"

type contextKey struct{}

// Role discriminates the two kinds of session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Principal is the identity carried by a session token. For admins ID is the
// admin id; for members it is the person id.
type Principal struct {
	Role     Role   `json:"role"`
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
