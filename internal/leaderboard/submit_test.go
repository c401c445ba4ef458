package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *Store, *fakeScoreRepo, *redis.Client) {
	t.Helper()
	store, scores, client := newTestStore(t)
	c := NewCoordinator(client, store, scores, cache.New(client), 5*time.Second)
	return c, store, scores, client
}

func TestSubmitFirstScoreIsNewRecord(t *testing.T) {
	c, _, scores, _ := newTestCoordinator(t)
	ctx := context.Background()

	res, err := c.Submit(ctx, 1, 100, 30, time.Now())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.IsNewRecord || res.Rank != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(scores.records) != 1 {
		t.Fatalf("records = %d, want 1", len(scores.records))
	}
}

func TestSubmitDominanceRule(t *testing.T) {
	c, store, scores, _ := newTestCoordinator(t)
	ctx := context.Background()
	now := time.Now()

	cases := []struct {
		score, duration int
		wantNew         bool
	}{
		{100, 30, true},  // 首次提交
		{100, 45, false}, // 同分但更慢
		{100, 20, true},  // 同分更快
		{90, 5, false},   // 分数更低，再快也不算
	}
	for i, tc := range cases {
		res, err := c.Submit(ctx, 1, tc.score, tc.duration, now.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("case %d: Submit: %v", i, err)
		}
		if res.IsNewRecord != tc.wantNew {
			t.Fatalf("case %d (%d/%d): IsNewRecord = %v, want %v",
				i, tc.score, tc.duration, res.IsNewRecord, tc.wantNew)
		}
	}

	// 历史无条件入库，不管是不是新纪录
	if len(scores.records) != len(cases) {
		t.Fatalf("records = %d, want %d", len(scores.records), len(cases))
	}

	// 榜上留的是支配规则下的最佳
	entries, err := store.TopN(ctx, WindowAll, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Score != 100 || entries[0].Duration != 20 {
		t.Fatalf("unexpected board: %+v", entries)
	}
}

func TestSubmitTieAcrossPlayers(t *testing.T) {
	c, store, _, _ := newTestCoordinator(t)
	ctx := context.Background()
	now := time.Now()

	if _, err := c.Submit(ctx, 1, 500, 120, now); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Submit(ctx, 2, 500, 90, now); err != nil {
		t.Fatal(err)
	}

	entries, err := store.TopN(ctx, WindowAll, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	durations := map[uint64]int{}
	for _, e := range entries {
		durations[e.UserID] = e.Duration
	}
	if durations[1] != 120 || durations[2] != 90 {
		t.Fatalf("unexpected durations: %+v", entries)
	}
}

func TestSubmitRejectsWhileLeaseHeld(t *testing.T) {
	c, _, scores, client := newTestCoordinator(t)
	ctx := context.Background()

	lease, err := AcquireLease(ctx, client, cache.SubmitLockKey(1), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Submit(ctx, 1, 100, 30, time.Now()); !errors.Is(err, ErrLocked) {
		t.Fatalf("Submit under lease: err = %v, want ErrLocked", err)
	}
	// 被拒绝的提交不落库
	if len(scores.records) != 0 {
		t.Fatalf("records = %d, want 0", len(scores.records))
	}

	if err := lease.Release(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Submit(ctx, 1, 100, 30, time.Now()); err != nil {
		t.Fatalf("Submit after release: %v", err)
	}
}

func TestSubmitReleasesLease(t *testing.T) {
	c, _, _, client := newTestCoordinator(t)
	ctx := context.Background()

	if _, err := c.Submit(ctx, 1, 100, 30, time.Now()); err != nil {
		t.Fatal(err)
	}
	lease, err := AcquireLease(ctx, client, cache.SubmitLockKey(1), time.Minute)
	if err != nil {
		t.Fatalf("lease not released after submit: %v", err)
	}
	_ = lease.Release(ctx)
}

func TestSubmitInvalidatesProfileCache(t *testing.T) {
	c, _, _, client := newTestCoordinator(t)
	ctx := context.Background()

	if err := client.Set(ctx, cache.UserProfileKey(1), "stale", 0).Err(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Submit(ctx, 1, 100, 30, time.Now()); err != nil {
		t.Fatal(err)
	}
	n, err := client.Exists(ctx, cache.UserProfileKey(1)).Result()
	if err != nil || n != 0 {
		t.Fatalf("profile cache not invalidated: n=%d err=%v", n, err)
	}
}
