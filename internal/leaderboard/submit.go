package leaderboard

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/entity"
	"github.com/1786035110/GameForum/internal/repo"
)

// RankResult 提交之后的名次和是否刷新了纪录
type RankResult struct {
	Rank        int  `json:"rank"`
	IsNewRecord bool `json:"isNewRecord"`
}

// Coordinator 串行化同一玩家的并发提交。互斥靠 Redis 里的租约，
// 不是进程内的锁——提交可能落在没有共享内存的不同实例上
type Coordinator struct {
	rdb          *redis.Client
	store        *Store
	scores       repo.ScoreRepo
	profileCache *cache.Cache
	lockTTL      time.Duration
}

func NewCoordinator(rdb *redis.Client, store *Store, scores repo.ScoreRepo, profileCache *cache.Cache, lockTTL time.Duration) *Coordinator {
	return &Coordinator{
		rdb:          rdb,
		store:        store,
		scores:       scores,
		profileCache: profileCache,
		lockTTL:      lockTTL,
	}
}

// Submit 提交一局成绩。
// 同玩家的并发提交只放行一个，其余立刻收到 ErrLocked（调用方提示稍后重试）。
// 成绩历史无条件入库——排名状态更新失败时提交也不会丢，只是暂时不上榜，
// 等下一轮重建校正
func (c *Coordinator) Submit(ctx context.Context, userID uint64, score, duration int, endTime time.Time) (*RankResult, error) {
	lease, err := AcquireLease(ctx, c.rdb, cache.SubmitLockKey(userID), c.lockTTL)
	if err != nil {
		return nil, err
	}
	// 哪一步出错都要释放租约，否则该玩家要被锁到 TTL 过期
	defer lease.Release(context.WithoutCancel(ctx))

	// 当前最佳要在本次成绩入库之前读：快照缺失时会回源查库，
	// 晚了就会把刚写进去的这条当成已有最佳，首次提交永远算不上新纪录
	best, err := c.store.bestSnapshot(ctx, WindowAll, userID)
	if err != nil {
		return nil, err
	}

	record := &entity.ScoreRecord{
		UserID:     userID,
		Score:      score,
		Duration:   duration,
		CreateTime: endTime,
	}
	if err := c.scores.Append(ctx, record); err != nil {
		return nil, err
	}

	// 个人资料里有总分和游戏历史，落库之后立即失效
	if err := c.profileCache.Invalidate(ctx, cache.UserProfileKey(userID)); err != nil {
		return nil, err
	}

	isNewRecord := best == nil || dominates(score, duration, best.Score, best.Duration)
	if isNewRecord {
		// 三个窗口写同一份值，日历切分交给周期重建去校正
		for _, w := range AllWindows() {
			if err := c.store.UpsertBest(ctx, w, userID, score, duration, endTime); err != nil {
				return nil, err
			}
		}
	}

	rank, err := c.store.RankOf(ctx, WindowAll, userID)
	if err != nil {
		return nil, err
	}
	return &RankResult{Rank: rank, IsNewRecord: isNewRecord}, nil
}
