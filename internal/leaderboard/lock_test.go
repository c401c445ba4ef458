package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLeaseMutualExclusion(t *testing.T) {
	client, _ := newTestRedis(t)
	ctx := context.Background()

	l1, err := AcquireLease(ctx, client, "lock:test", time.Minute)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := AcquireLease(ctx, client, "lock:test", time.Minute); !errors.Is(err, ErrLocked) {
		t.Fatalf("second acquire: err = %v, want ErrLocked", err)
	}
	if err := l1.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := AcquireLease(ctx, client, "lock:test", time.Minute); err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
}

func TestStaleReleaseKeepsNewLease(t *testing.T) {
	client, mr := newTestRedis(t)
	ctx := context.Background()

	l1, err := AcquireLease(ctx, client, "lock:test", time.Second)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	mr.FastForward(2 * time.Second)

	// 租约过期后被新持有者抢到
	if _, err := AcquireLease(ctx, client, "lock:test", time.Minute); err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}

	// 迟到的释放不能删掉新持有者的租约
	if err := l1.Release(ctx); err != nil {
		t.Fatalf("stale release: %v", err)
	}
	n, err := client.Exists(ctx, "lock:test").Result()
	if err != nil || n != 1 {
		t.Fatalf("lease gone after stale release: n=%d err=%v", n, err)
	}
}
