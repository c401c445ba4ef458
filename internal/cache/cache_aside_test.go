package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client)
}

type testValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetOrLoadLoadsOnce(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return &testValue{Name: "hello", Count: 3}, nil
	}

	var got testValue
	if err := c.GetOrLoad(ctx, "k", time.Hour, &got, loader); err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if got.Name != "hello" || got.Count != 3 {
		t.Fatalf("unexpected value: %+v", got)
	}

	var again testValue
	if err := c.GetOrLoad(ctx, "k", time.Hour, &again, loader); err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("loader calls = %d, want 1", calls)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return &testValue{Count: calls}, nil
	}

	var got testValue
	if err := c.GetOrLoad(ctx, "k", time.Hour, &got, loader); err != nil {
		t.Fatal(err)
	}
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := c.GetOrLoad(ctx, "k", time.Hour, &got, loader); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("loader calls = %d, want 2", calls)
	}
	if got.Count != 2 {
		t.Fatalf("got stale value: %+v", got)
	}
}

func TestNullMarkerStopsPenetration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(ctx context.Context) (any, error) {
		calls++
		return nil, nil // 实体不存在
	}

	var got testValue
	if err := c.GetOrLoad(ctx, "missing", time.Hour, &got, loader); err != ErrNotFound {
		t.Fatalf("first read: err = %v, want ErrNotFound", err)
	}
	// 第二次读命中空值标记，不再回源
	if err := c.GetOrLoad(ctx, "missing", time.Hour, &got, loader); err != ErrNotFound {
		t.Fatalf("second read: err = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Fatalf("loader calls = %d, want 1", calls)
	}
}
