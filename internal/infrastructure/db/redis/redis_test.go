package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestConnect(t *testing.T) {
	t.Run("applies pool and auth settings", func(t *testing.T) {
		mr := miniredis.RunT(t)
		mr.RequireAuth("hunter2")

		client, err := Connect(context.Background(), Config{
			Addr:     mr.Addr(),
			Password: "hunter2",
			PoolSize: 3,
			Timeout:  time.Second,
		})
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
		defer client.Close()

		opts := client.Options()
		if opts.PoolSize != 3 || opts.ReadTimeout != time.Second || opts.DialTimeout != time.Second {
			t.Errorf("unexpected client options pool=%d read=%v dial=%v", opts.PoolSize, opts.ReadTimeout, opts.DialTimeout)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		mr := miniredis.RunT(t)
		mr.RequireAuth("hunter2")

		if _, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "nope"}); err == nil {
			t.Fatal("expected auth failure")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
			t.Fatal("expected ping failure")
		}
	})

	t.Run("default timeout", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
		defer client.Close()
		if got := client.Options().ReadTimeout; got != defaultTimeout {
			t.Errorf("read timeout = %v, want %v", got, defaultTimeout)
		}
	})
}
