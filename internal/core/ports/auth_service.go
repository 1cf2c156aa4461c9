package ports

import (
	"context"

	"github.com/medqueue/clinic-auth/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	SessionID string
	Principal domain.Principal
}

// AuthService is the use-case surface the HTTP layer drives.
type AuthService interface {
	Login(ctx context.Context, email, secret string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string)
	Current(ctx context.Context, sessionID string) (domain.Principal, error)
}

// Authorizer evaluates per-request access against a session.
type Authorizer interface {
	RequireAuthenticated(ctx context.Context, sessionID string) (domain.Principal, error)
	RequireRole(ctx context.Context, sessionID string, min domain.Role) (domain.Principal, error)
	RequireSelfOrAdmin(ctx context.Context, sessionID string, targetID int64) (domain.Principal, error)
}

// PrincipalDirectory looks up principals by kind and id for read endpoints.
type PrincipalDirectory interface {
	Lookup(ctx context.Context, kind domain.PrincipalKind, id int64) (domain.Principal, error)
}
