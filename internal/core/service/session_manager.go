package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
	"github.com/medqueue/clinic-auth/internal/pkg/metrics"
)

const (
	tokenBytes = 32
	defaultTTL = 24 * time.Hour
)

// tokenLen is the length of an encoded session id.
var tokenLen = base64.RawURLEncoding.EncodedLen(tokenBytes)

// SessionOptions tunes session lifetime.
type SessionOptions struct {
	TTL time.Duration
	// Sliding extends the TTL on every successful restore.
	Sliding bool
}

// SessionManager creates, restores and destroys server-held sessions. A
// session stores only the principal descriptor; every restore re-reads the
// principal from its store.
type SessionManager struct {
	repo      ports.SessionRepository
	directory ports.PrincipalDirectory
	opts      SessionOptions
	log       zerolog.Logger
}

// NewSessionManager returns a SessionManager. A non-positive TTL uses defaultTTL.
func NewSessionManager(repo ports.SessionRepository, directory ports.PrincipalDirectory, opts SessionOptions, log zerolog.Logger) *SessionManager {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	return &SessionManager{repo: repo, directory: directory, opts: opts, log: log}
}

// TTL reports the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.opts.TTL
}

// Create allocates a new session for p and returns its id.
func (m *SessionManager) Create(ctx context.Context, p domain.Principal) (string, error) {
	if p == nil {
		return "", errors.New("create session: nil principal")
	}

	id, err := newToken()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	if err := m.repo.Save(ctx, id, domain.DescriptorOf(p), m.opts.TTL); err != nil {
		return "", fmt.Errorf("%w: save session: %v", domain.ErrStoreUnavailable, err)
	}

	metrics.SessionsCreatedTotal.WithLabelValues(string(p.Kind())).Inc()
	return id, nil
}

// Restore returns the live principal behind id, or nil when the session or
// its principal no longer exists. A session whose principal is gone, or
// whose token or descriptor is malformed, is destroyed.
func (m *SessionManager) Restore(ctx context.Context, id string) (domain.Principal, error) {
	if id == "" {
		metrics.SessionRestoresTotal.WithLabelValues("missing").Inc()
		return nil, nil
	}
	if !wellFormedToken(id) {
		metrics.SessionRestoresTotal.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: token", domain.ErrMalformedSession)
	}

	d, err := m.repo.Load(ctx, id)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		metrics.SessionRestoresTotal.WithLabelValues("missing").Inc()
		return nil, nil
	case errors.Is(err, domain.ErrMalformedSession):
		metrics.SessionRestoresTotal.WithLabelValues("malformed").Inc()
		m.Destroy(ctx, id)
		return nil, err
	case err != nil:
		metrics.SessionRestoresTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: load session: %v", domain.ErrStoreUnavailable, err)
	}

	if err := d.Validate(); err != nil {
		metrics.SessionRestoresTotal.WithLabelValues("malformed").Inc()
		m.Destroy(ctx, id)
		return nil, err
	}

	p, err := m.directory.Lookup(ctx, d.PrincipalKind, d.PrincipalID)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			metrics.SessionRestoresTotal.WithLabelValues("principal_gone").Inc()
			m.Destroy(ctx, id)
			return nil, nil
		}
		metrics.SessionRestoresTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if m.opts.Sliding {
		if err := m.repo.Refresh(ctx, id, m.opts.TTL); err != nil {
			m.log.Warn().Err(err).Msg("failed to extend session")
		}
	}

	metrics.SessionRestoresTotal.WithLabelValues("ok").Inc()
	return p, nil
}

// Destroy removes the session. Unknown ids and store failures are not
// reported to the caller; failures are logged.
func (m *SessionManager) Destroy(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		m.log.Warn().Err(err).Msg("failed to delete session")
	}
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func wellFormedToken(id string) bool {
	if len(id) != tokenLen {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(id)
	return err == nil
}
