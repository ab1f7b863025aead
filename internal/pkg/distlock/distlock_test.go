package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLockMutualExclusion(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	first := New(client, nil, "rescore", time.Minute)
	second := New(client, nil, "rescore", time.Minute)

	ok, err := first.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("second holder acquired a held lock")
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseIsOwnerScoped(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	holder := New(client, nil, "rescore", time.Minute)
	intruder := New(client, nil, "rescore", time.Minute)

	if ok, _ := holder.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}
	// An instance that never got the lock must not be able to free it.
	if err := intruder.Release(ctx); err != nil {
		t.Fatalf("intruder release: %v", err)
	}
	if ok, _ := intruder.Acquire(ctx); ok {
		t.Fatal("lock was released by a non-owner")
	}
}

func TestDifferentKeysDoNotContend(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	a := New(client, nil, "rescore", time.Minute)
	b := New(client, nil, "import", time.Minute)

	if ok, _ := a.Acquire(ctx); !ok {
		t.Fatal("acquire a failed")
	}
	if ok, _ := b.Acquire(ctx); !ok {
		t.Fatal("unrelated key should be free")
	}
}
