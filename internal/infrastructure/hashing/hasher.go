package hashing

import (
	"context"
	"fmt"
	"time"

	"github.com/medqueue/clinic-auth/internal/core/ports"
	"github.com/medqueue/clinic-auth/internal/pkg/metrics"
	"github.com/medqueue/clinic-auth/pkg/password"
)

// Runner schedules CPU-bound work. *queue.Pool satisfies it.
type Runner interface {
	Do(ctx context.Context, fn func()) error
}

// PooledHasher implements ports.CredentialHasher on top of a bounded runner
// so password derivation never runs on the request goroutine.
type PooledHasher struct {
	runner Runner
}

var _ ports.CredentialHasher = (*PooledHasher)(nil)

// NewPooledHasher wraps runner.
func NewPooledHasher(runner Runner) *PooledHasher {
	return &PooledHasher{runner: runner}
}

// Hash derives a new stored form for secret.
func (h *PooledHasher) Hash(ctx context.Context, secret string) (string, error) {
	var (
		stored  string
		hashErr error
	)
	if err := h.runner.Do(ctx, func() {
		defer observe("hash", time.Now())
		stored, hashErr = password.Hash(secret)
	}); err != nil {
		return "", fmt.Errorf("schedule hash: %w", err)
	}
	if hashErr != nil {
		return "", hashErr
	}
	return stored, nil
}

// Verify checks secret against stored. A malformed stored form is false.
func (h *PooledHasher) Verify(ctx context.Context, stored, secret string) (bool, error) {
	var ok bool
	if err := h.runner.Do(ctx, func() {
		defer observe("verify", time.Now())
		ok = password.Verify(stored, secret)
	}); err != nil {
		return false, fmt.Errorf("schedule verify: %w", err)
	}
	return ok, nil
}

func observe(op string, start time.Time) {
	metrics.HashDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
