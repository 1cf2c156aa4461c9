package ports

import (
	"context"
	"time"

	"github.com/medqueue/clinic-auth/internal/core/domain"
)

// SessionRepository persists session descriptors keyed by opaque token.
type SessionRepository interface {
	Save(ctx context.Context, id string, d domain.Descriptor, ttl time.Duration) error
	// Load returns domain.ErrSessionNotFound for unknown or expired ids and
	// domain.ErrMalformedSession when the stored value cannot be decoded.
	Load(ctx context.Context, id string) (domain.Descriptor, error)
	// Delete succeeds for unknown ids.
	Delete(ctx context.Context, id string) error
	// Refresh extends the lifetime of an existing session.
	Refresh(ctx context.Context, id string, ttl time.Duration) error
}
