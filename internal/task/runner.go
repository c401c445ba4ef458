package task

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/leaderboard"
	"github.com/1786035110/GameForum/internal/viewcount"
)

// Runner 两个固定间隔的后台任务：排行榜全量重建、浏览计数刷库。
// 都是从持久层到快存的单向校正（计数刷库方向相反），
// 上一轮还没跑完时本轮直接跳过（租约挡住）
type Runner struct {
	rdb     *redis.Client
	store   *leaderboard.Store
	batcher *viewcount.Batcher

	reconcileInterval time.Duration
	flushInterval     time.Duration
	flushLockTTL      time.Duration
}

func NewRunner(rdb *redis.Client, store *leaderboard.Store, batcher *viewcount.Batcher, reconcileInterval, flushInterval, flushLockTTL time.Duration) *Runner {
	return &Runner{
		rdb:               rdb,
		store:             store,
		batcher:           batcher,
		reconcileInterval: reconcileInterval,
		flushInterval:     flushInterval,
		flushLockTTL:      flushLockTTL,
	}
}

// Start 启动两个任务协程，ctx 取消后停止
func (r *Runner) Start(ctx context.Context) {
	go r.reconcileLoop(ctx)
	go r.flushLoop(ctx)
}

func (r *Runner) reconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(r.reconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.ReconcileAll(ctx)
		}
	}
}

// ReconcileAll 重建三个窗口。单个窗口失败只记日志，不影响其余窗口
func (r *Runner) ReconcileAll(ctx context.Context) {
	for _, w := range leaderboard.AllWindows() {
		if err := r.store.Rebuild(ctx, w); err != nil {
			if errors.Is(err, leaderboard.ErrLocked) {
				log.Printf("task: %s window rebuild still running, skip this tick", w)
				continue
			}
			log.Printf("task: rebuild %s window failed: %v", w, err)
		}
	}
}

func (r *Runner) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.FlushViewCounts(ctx)
		}
	}
}

// FlushViewCounts 浏览计数刷库，同样用租约防止上轮未完时重入
func (r *Runner) FlushViewCounts(ctx context.Context) {
	lease, err := leaderboard.AcquireLease(ctx, r.rdb, cache.FlushLockKey(), r.flushLockTTL)
	if err != nil {
		if errors.Is(err, leaderboard.ErrLocked) {
			log.Print("task: view count flush still running, skip this tick")
			return
		}
		log.Printf("task: acquire flush lease failed: %v", err)
		return
	}
	defer lease.Release(context.WithoutCancel(ctx))

	if err := r.batcher.FlushAll(ctx); err != nil {
		log.Printf("task: flush view counts failed: %v", err)
	}
}
