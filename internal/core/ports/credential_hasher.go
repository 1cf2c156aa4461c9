package ports

import "context"

// CredentialHasher derives and checks stored password forms. Errors are
// reserved for scheduling failures (cancelled context, closed pool); a
// non-matching or malformed stored form is reported as false.
type CredentialHasher interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, stored, secret string) (bool, error)
}
