package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreLiveness(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client)
	ctx := context.Background()

	if err := store.MarkLive(ctx, "tok-1", time.Minute); err != nil {
		t.Fatalf("mark live: %v", err)
	}
	if live, err := store.IsLive(ctx, "tok-1"); err != nil || !live {
		t.Fatalf("expected live token, got live=%v err=%v", live, err)
	}

	if err := store.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if live, _ := store.IsLive(ctx, "tok-1"); live {
		t.Fatalf("expected revoked token to be dead")
	}

	// Expiry kills liveness too.
	if err := store.MarkLive(ctx, "tok-2", time.Second); err != nil {
		t.Fatalf("mark live: %v", err)
	}
	mr.FastForward(2 * time.Second)
	if live, _ := store.IsLive(ctx, "tok-2"); live {
		t.Fatalf("expected expired token to be dead")
	}
}
