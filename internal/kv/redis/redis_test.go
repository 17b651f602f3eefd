package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"vestadmin/internal/kv"
)

// Requires a reachable Redis; set REDIS_TEST_ADDR to run.
func TestStoreIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s := New(Options{Addr: addr, Prefix: "vestadmin-test:" + time.Now().Format("150405.000") + ":"})
	defer s.Close()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := s.Get(ctx, "user_admin"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "user_admin", []byte(`{"id":"admin"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "user_admin")
	if err != nil || string(got) != `{"id":"admin"}` {
		t.Fatalf("get = %q (err=%v)", got, err)
	}
}
