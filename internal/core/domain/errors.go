package domain

import "errors"

// Client-visible denials. Each maps to exactly one HTTP status at the boundary.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrMalformedSession   = errors.New("malformed session")
)

// ErrStoreUnavailable marks infrastructure failures. It is the only error
// surfaced as an internal error.
var ErrStoreUnavailable = errors.New("store unavailable")

// Lookup misses returned by store collaborators. Authentication paths turn
// these into absent results; only the principal directory reports a miss.
var (
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrSessionNotFound   = errors.New("session not found")
)

// Reason returns the stable machine-readable code for a denial.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, ErrMalformedSession):
		return "malformed_session"
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrInsufficientRole):
		return "insufficient_role"
	case errors.Is(err, ErrPrincipalNotFound):
		return "not_found"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	}
	return ""
}
