package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
	"github.com/medqueue/clinic-auth/internal/pkg/metrics"
)

// Resolver is the part of PrincipalResolver AuthService needs.
type Resolver interface {
	Resolve(ctx context.Context, email, secret string) (domain.Principal, error)
}

// Sessions is the part of SessionManager AuthService needs.
type Sessions interface {
	Create(ctx context.Context, p domain.Principal) (string, error)
	Destroy(ctx context.Context, id string)
}

// AuthService implements login, logout and current-principal lookup.
type AuthService struct {
	resolver   Resolver
	sessions   Sessions
	authorizer ports.Authorizer
	log        zerolog.Logger
}

// NewAuthService wires the login flow.
func NewAuthService(resolver Resolver, sessions Sessions, authorizer ports.Authorizer, log zerolog.Logger) *AuthService {
	return &AuthService{resolver: resolver, sessions: sessions, authorizer: authorizer, log: log}
}

var _ ports.AuthService = (*AuthService)(nil)

// Login resolves the credentials and opens a session. A matching but
// inactive account is refused without creating a session.
func (s *AuthService) Login(ctx context.Context, email, secret string) (*ports.LoginResult, error) {
	if strings.TrimSpace(email) == "" || secret == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	p, err := s.resolver.Resolve(ctx, email, secret)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if p == nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		s.log.Info().Msg("login rejected: invalid credentials")
		return nil, domain.ErrInvalidCredentials
	}
	if !p.Active() {
		metrics.LoginAttemptsTotal.WithLabelValues("account_inactive").Inc()
		s.log.Info().
			Str("kind", string(p.Kind())).
			Int64("principal_id", p.PrincipalID()).
			Msg("login rejected: account inactive")
		return nil, domain.ErrAccountInactive
	}

	id, err := s.sessions.Create(ctx, p)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().
		Str("kind", string(p.Kind())).
		Int64("principal_id", p.PrincipalID()).
		Msg("login succeeded")

	return &ports.LoginResult{SessionID: id, Principal: p}, nil
}

// Logout destroys the session if there is one.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	s.sessions.Destroy(ctx, sessionID)
}

// Current returns the active principal for the session.
func (s *AuthService) Current(ctx context.Context, sessionID string) (domain.Principal, error) {
	p, err := s.authorizer.RequireAuthenticated(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrStoreUnavailable) {
		s.log.Debug().Err(err).Msg("current principal denied")
	}
	return p, err
}
