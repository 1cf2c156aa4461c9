package domain

import (
	"context"
	"fmt"
	"time"
)

// PrincipalKind names the store a principal was resolved from.
type PrincipalKind string

const (
	KindAdmin PrincipalKind = "admin"
	KindUser  PrincipalKind = "user"
)

// ParsePrincipalKind validates a kind read from a session descriptor or URL.
func ParsePrincipalKind(s string) (PrincipalKind, error) {
	switch PrincipalKind(s) {
	case KindAdmin:
		return KindAdmin, nil
	case KindUser:
		return KindUser, nil
	}
	return "", fmt.Errorf("unknown principal kind %q", s)
}

// Identity holds the fields both principal variants share.
type Identity struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// PrincipalID returns the store-local id.
func (i Identity) PrincipalID() int64 { return i.ID }

// Active reports whether the account may authenticate.
func (i Identity) Active() bool { return i.IsActive }

// Credential returns the stored hash for verification.
func (i Identity) Credential() string { return i.PasswordHash }

// Principal is an authenticated identity. It is implemented only by
// *AdminPrincipal and *UserPrincipal; consumers switch on the concrete type.
type Principal interface {
	Kind() PrincipalKind
	PrincipalID() int64
	Active() bool
	Credential() string
	sealed()
}

// AdminPrincipal is a system administrator. Administrators sit outside the
// user role hierarchy.
type AdminPrincipal struct {
	Identity
}

func (*AdminPrincipal) Kind() PrincipalKind { return KindAdmin }
func (*AdminPrincipal) sealed()             {}

// UserPrincipal is a clinic staff or patient-facing account with a role.
type UserPrincipal struct {
	Identity
	Role Role `json:"role"`
}

func (*UserPrincipal) Kind() PrincipalKind { return KindUser }
func (*UserPrincipal) sealed()             {}

// Descriptor is the only principal data a session persists.
type Descriptor struct {
	PrincipalID   int64         `json:"principalId"`
	PrincipalKind PrincipalKind `json:"principalKind"`
}

// DescriptorOf builds the session descriptor for p.
func DescriptorOf(p Principal) Descriptor {
	return Descriptor{PrincipalID: p.PrincipalID(), PrincipalKind: p.Kind()}
}

// Validate rejects descriptors that cannot reference a principal.
func (d Descriptor) Validate() error {
	if d.PrincipalID <= 0 {
		return fmt.Errorf("%w: principal id %d", ErrMalformedSession, d.PrincipalID)
	}
	if _, err := ParsePrincipalKind(string(d.PrincipalKind)); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	return nil
}

type principalKey struct{}

// WithPrincipal returns a context carrying the request's authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom extracts the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p != nil
}
