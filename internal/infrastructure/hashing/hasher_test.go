package hashing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medqueue/clinic-auth/internal/infrastructure/queue"
)

func newHasher(t *testing.T) *PooledHasher {
	t.Helper()
	pool := queue.NewPool(2, 4, zerolog.Nop())
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)
	return NewPooledHasher(pool)
}

func TestPooledHasher_RoundTrip(t *testing.T) {
	h := newHasher(t)
	ctx := context.Background()

	stored, err := h.Hash(ctx, "clinic-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ok, err := h.Verify(ctx, stored, "clinic-pass")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = h.Verify(ctx, stored, "other-pass")
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestPooledHasher_MalformedIsFalseNotError(t *testing.T) {
	h := newHasher(t)

	ok, err := h.Verify(context.Background(), "not-a-stored-form", "x")
	if err != nil {
		t.Fatalf("malformed stored form must not error: %v", err)
	}
	if ok {
		t.Fatal("malformed stored form must not verify")
	}
}

type failingRunner struct{ err error }

func (f failingRunner) Do(context.Context, func()) error { return f.err }

func TestPooledHasher_SchedulingErrorPropagates(t *testing.T) {
	h := NewPooledHasher(failingRunner{err: queue.ErrPoolClosed})

	if _, err := h.Verify(context.Background(), "a.b", "x"); !errors.Is(err, queue.ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
	if _, err := h.Hash(context.Background(), "x"); !errors.Is(err, queue.ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}
