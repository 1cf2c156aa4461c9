package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPool_RunsJob(t *testing.T) {
	p := NewPool(2, 4, zerolog.Nop())
	p.Start(context.Background())
	defer p.Stop()

	ran := false
	if err := p.Do(context.Background(), func() { ran = true }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Fatal("job did not run before Do returned")
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 3
	p := NewPool(workers, 32, zerolog.Nop())
	p.Start(context.Background())
	defer p.Stop()

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func() {
				n := atomic.AddInt32(&current, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&current, -1)
			})
		}()
	}
	wg.Wait()

	if peak > workers {
		t.Fatalf("expected at most %d concurrent jobs, saw %d", workers, peak)
	}
	if peak == 0 {
		t.Fatal("no jobs ran")
	}
}

func TestPool_ContextCancelledWhileQueued(t *testing.T) {
	p := NewPool(1, 0, zerolog.Nop())
	p.Start(context.Background())
	defer p.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() {
			close(started)
			<-release
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Do(ctx, func() { t.Error("job must not run") })
	close(release)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPool_RejectsAfterStop(t *testing.T) {
	p := NewPool(1, 1, zerolog.Nop())
	p.Start(context.Background())
	p.Stop()
	p.Stop() // idempotent

	if err := p.Do(context.Background(), func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}

func TestPool_RecoversFromPanic(t *testing.T) {
	p := NewPool(1, 1, zerolog.Nop())
	p.Start(context.Background())
	defer p.Stop()

	if err := p.Do(context.Background(), func() { panic("boom") }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	ran := false
	if err := p.Do(context.Background(), func() { ran = true }); err != nil || !ran {
		t.Fatalf("worker must survive a panicking job: err=%v ran=%v", err, ran)
	}
}

func TestNewPool_Defaults(t *testing.T) {
	cases := []struct {
		workers, buffer int
		wantCap         int
	}{
		{workers: 1, buffer: 0, wantCap: 0},
		{workers: 1, buffer: -1, wantCap: defaultBuffer},
		{workers: 0, buffer: 8, wantCap: 8},
	}
	for _, tc := range cases {
		p := NewPool(tc.workers, tc.buffer, zerolog.Nop())
		if got := cap(p.jobs); got != tc.wantCap {
			t.Errorf("NewPool(%d, %d): queue capacity = %d, want %d", tc.workers, tc.buffer, got, tc.wantCap)
		}
		if p.workers <= 0 {
			t.Errorf("NewPool(%d, %d): workers = %d, want > 0", tc.workers, tc.buffer, p.workers)
		}
	}
}

func TestPool_UnbufferedRunsJob(t *testing.T) {
	p := NewPool(1, 0, zerolog.Nop())
	p.Start(context.Background())
	defer p.Stop()

	var ran atomic.Bool
	if err := p.Do(context.Background(), func() { ran.Store(true) }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran.Load() {
		t.Fatal("job did not run on an unbuffered pool")
	}
}
