package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
	"github.com/medqueue/clinic-auth/internal/pkg/metrics"
)

// SessionRestorer is the part of SessionManager the authorizer needs.
type SessionRestorer interface {
	Restore(ctx context.Context, id string) (domain.Principal, error)
}

// RoleAuthorizer runs the per-request checks. Every check restores the
// session afresh and denies unless a valid, active, sufficiently privileged
// principal comes back.
type RoleAuthorizer struct {
	sessions SessionRestorer
}

// NewRoleAuthorizer returns an authorizer backed by sessions.
func NewRoleAuthorizer(sessions SessionRestorer) *RoleAuthorizer {
	return &RoleAuthorizer{sessions: sessions}
}

var _ ports.Authorizer = (*RoleAuthorizer)(nil)

// RequireAuthenticated returns the active principal behind sessionID.
func (a *RoleAuthorizer) RequireAuthenticated(ctx context.Context, sessionID string) (domain.Principal, error) {
	p, err := a.sessions.Restore(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedSession) {
			return nil, deny(fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err))
		}
		return nil, err
	}
	if err := domain.CheckActive(p); err != nil {
		return nil, deny(err)
	}
	return p, nil
}

// RequireRole additionally requires the user role to rank at least min.
// Administrators always pass.
func (a *RoleAuthorizer) RequireRole(ctx context.Context, sessionID string, min domain.Role) (domain.Principal, error) {
	p, err := a.RequireAuthenticated(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckRole(p, min); err != nil {
		return nil, deny(err)
	}
	return p, nil
}

// RequireSelfOrAdmin additionally requires the principal to own targetID or
// be an administrator.
func (a *RoleAuthorizer) RequireSelfOrAdmin(ctx context.Context, sessionID string, targetID int64) (domain.Principal, error) {
	p, err := a.RequireAuthenticated(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckSelfOrAdmin(p, targetID); err != nil {
		return nil, deny(err)
	}
	return p, nil
}

func deny(err error) error {
	metrics.AuthorizationDenialsTotal.WithLabelValues(domain.Reason(err)).Inc()
	return err
}
