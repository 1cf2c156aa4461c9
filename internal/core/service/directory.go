package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
)

// Directory fetches live principal records by kind and id. It is the single
// place where a descriptor's kind selects a store.
type Directory struct {
	admins ports.AdministratorStore
	users  ports.UserStore
}

// NewDirectory returns a Directory over the two stores.
func NewDirectory(admins ports.AdministratorStore, users ports.UserStore) *Directory {
	return &Directory{admins: admins, users: users}
}

var _ ports.PrincipalDirectory = (*Directory)(nil)

// Lookup returns the current record. Misses return domain.ErrPrincipalNotFound;
// store failures are wrapped in domain.ErrStoreUnavailable.
func (d *Directory) Lookup(ctx context.Context, kind domain.PrincipalKind, id int64) (domain.Principal, error) {
	var (
		p   domain.Principal
		err error
	)
	switch kind {
	case domain.KindAdmin:
		var a *domain.AdminPrincipal
		a, err = d.admins.GetByID(ctx, id)
		if a != nil {
			p = a
		}
	case domain.KindUser:
		var u *domain.UserPrincipal
		u, err = d.users.GetByID(ctx, id)
		if u != nil {
			p = u
		}
	default:
		return nil, fmt.Errorf("%w: kind %q", domain.ErrMalformedSession, kind)
	}

	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("%w: %s %d: %v", domain.ErrStoreUnavailable, kind, id, err)
	}
	if p == nil {
		return nil, domain.ErrPrincipalNotFound
	}
	return p, nil
}
