package ports

import (
	"context"
	"time"

	"github.com/medqueue/clinic-auth/internal/core/domain"
)

// AdministratorStore is the read-mostly view of the administrators table.
// Lookups that match nothing return domain.ErrPrincipalNotFound; any other
// error means the store could not be reached.
type AdministratorStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.AdminPrincipal, error)
	GetByID(ctx context.Context, id int64) (*domain.AdminPrincipal, error)
	// TouchLastLogin must be a single atomic write; concurrent logins race
	// with last-write-wins.
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

// UserStore is the read-mostly view of the users table, with the same
// error contract as AdministratorStore.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.UserPrincipal, error)
	GetByID(ctx context.Context, id int64) (*domain.UserPrincipal, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
