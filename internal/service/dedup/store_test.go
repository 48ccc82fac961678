package dedup

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

func newTestStore(t *testing.T, ttl time.Duration) (*ValkeyStore, *miniredis.Miniredis) {
	t.Helper()

	mini := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mini.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("failed to create valkey client: %v", err)
	}

	store := NewValkeyStoreWithClient(client, ttl, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(store.Close)
	return store, mini
}

func TestValkeyStoreClaim(t *testing.T) {
	store, mini := newTestStore(t, time.Hour)
	ctx := context.Background()

	first, err := store.Claim(ctx, "01HXYZ")
	if err != nil || !first {
		t.Fatalf("first claim should succeed, got %v %v", first, err)
	}

	second, err := store.Claim(ctx, "01HXYZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second {
		t.Fatalf("duplicate claim must be rejected")
	}

	other, err := store.Claim(ctx, "01HABC")
	if err != nil || !other {
		t.Fatalf("distinct event must be claimable, got %v %v", other, err)
	}

	if ttl := mini.TTL(keyFor("01HXYZ")); ttl != time.Hour {
		t.Fatalf("unexpected ttl: %v", ttl)
	}
}

func TestValkeyStoreClaimAfterExpiry(t *testing.T) {
	store, mini := newTestStore(t, time.Minute)
	ctx := context.Background()

	if ok, err := store.Claim(ctx, "evt"); err != nil || !ok {
		t.Fatalf("first claim failed: %v %v", ok, err)
	}

	mini.FastForward(2 * time.Minute)

	if ok, err := store.Claim(ctx, "evt"); err != nil || !ok {
		t.Fatalf("claim after expiry should succeed: %v %v", ok, err)
	}
}

func TestValkeyStoreEmptyIDAlwaysClaims(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	for range 2 {
		if ok, err := store.Claim(context.Background(), ""); err != nil || !ok {
			t.Fatalf("empty id must always be claimable: %v %v", ok, err)
		}
	}
}

func TestValkeyStoreClaimError(t *testing.T) {
	store, mini := newTestStore(t, time.Minute)
	mini.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := store.Claim(ctx, "evt"); err == nil {
		t.Fatalf("expected error when store is unavailable")
	}
}

func TestNoopStore(t *testing.T) {
	t.Parallel()

	var store Store = NoopStore{}
	for range 2 {
		if ok, err := store.Claim(context.Background(), "evt"); err != nil || !ok {
			t.Fatalf("noop store must always claim: %v %v", ok, err)
		}
	}
	store.Close()
}

func TestValkeyStorePing(t *testing.T) {
	store, mini := newTestStore(t, time.Minute)

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping should succeed: %v", err)
	}

	mini.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := store.Ping(ctx); err == nil {
		t.Fatalf("ping should fail once the server is gone")
	}
}
