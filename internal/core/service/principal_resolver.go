package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
	"github.com/medqueue/clinic-auth/internal/pkg/metrics"
	"github.com/medqueue/clinic-auth/pkg/password"
)

const touchTimeout = 5 * time.Second

// PrincipalResolver turns an email/secret pair into a principal by asking the
// administrator store first and the user store second.
type PrincipalResolver struct {
	admins ports.AdministratorStore
	users  ports.UserStore
	hasher ports.CredentialHasher
	log    zerolog.Logger
	now    func() time.Time

	touches sync.WaitGroup
}

// NewPrincipalResolver returns a resolver over the two stores.
func NewPrincipalResolver(
	admins ports.AdministratorStore,
	users ports.UserStore,
	hasher ports.CredentialHasher,
	log zerolog.Logger,
) *PrincipalResolver {
	return &PrincipalResolver{
		admins: admins,
		users:  users,
		hasher: hasher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// candidate is a store hit awaiting credential verification.
type candidate struct {
	principal domain.Principal
	touch     func(ctx context.Context, id int64, at time.Time) error
}

// Resolve returns the first principal whose stored credential verifies
// against secret, or nil when none does. An email present in both stores
// resolves to the administrator when the secret matches it. The error is
// non-nil only for store or scheduling failures.
func (r *PrincipalResolver) Resolve(ctx context.Context, email, secret string) (domain.Principal, error) {
	email = normalizeEmail(email)
	found := false

	lookups := []func(context.Context, string) (*candidate, error){
		r.adminCandidate,
		r.userCandidate,
	}
	for _, lookup := range lookups {
		c, err := lookup(ctx, email)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue
		}
		found = true

		ok, err := r.hasher.Verify(ctx, c.principal.Credential(), secret)
		if err != nil {
			return nil, fmt.Errorf("resolve principal: %w", err)
		}
		if ok {
			r.touchAsync(ctx, c)
			return c.principal, nil
		}
	}

	if !found {
		// Equalise timing with the wrong-password path.
		if _, err := r.hasher.Verify(ctx, password.Dummy(), secret); err != nil {
			return nil, fmt.Errorf("resolve principal: %w", err)
		}
	}
	return nil, nil
}

// Wait blocks until every pending lastLogin write has finished.
func (r *PrincipalResolver) Wait() {
	r.touches.Wait()
}

func (r *PrincipalResolver) adminCandidate(ctx context.Context, email string) (*candidate, error) {
	a, err := r.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: administrators: %v", domain.ErrStoreUnavailable, err)
	}
	return &candidate{principal: a, touch: r.admins.TouchLastLogin}, nil
}

func (r *PrincipalResolver) userCandidate(ctx context.Context, email string) (*candidate, error) {
	u, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: users: %v", domain.ErrStoreUnavailable, err)
	}
	return &candidate{principal: u, touch: r.users.TouchLastLogin}, nil
}

// touchAsync records the login time without holding up the caller. The
// write outlives the request context but not touchTimeout.
func (r *PrincipalResolver) touchAsync(ctx context.Context, c *candidate) {
	at := r.now()
	kind := c.principal.Kind()
	id := c.principal.PrincipalID()
	bg := context.WithoutCancel(ctx)

	r.touches.Add(1)
	go func() {
		defer r.touches.Done()
		tctx, cancel := context.WithTimeout(bg, touchTimeout)
		defer cancel()

		if err := c.touch(tctx, id, at); err != nil {
			metrics.LastLoginTouchErrorsTotal.WithLabelValues(string(kind)).Inc()
			r.log.Warn().Err(err).
				Str("kind", string(kind)).
				Int64("principal_id", id).
				Msg("failed to record last login")
		}
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
