package leaderboard

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/entity"
)

// Rebuild 以数据库为准全量重建一个窗口：查出窗口内全部成绩，
// 按与增量路径相同的支配规则归并出每个玩家的最佳记录，清空 ZSet 和快照后批量回写。
// 增量路径的任何半截失败都会在下一轮重建内自愈。
//
// 同窗口的并发重建用租约挡掉（返回 ErrLocked，调用方按跳过处理）。
// 重建与同窗口的实时 UpsertBest 并发时，略旧的全量覆盖可能把最新一次提交
// 压掉到下一轮重建周期，这是接受的有界陈旧窗口，不用更重的锁去消除
func (s *Store) Rebuild(ctx context.Context, w Window) error {
	lease, err := AcquireLease(ctx, s.rdb, cache.RebuildLockKey(string(w)), s.rebuildLockTTL)
	if err != nil {
		return err
	}
	defer lease.Release(context.WithoutCancel(ctx))

	now := time.Now()
	records, err := s.scores.ListRange(ctx, w.StartTime(now), now)
	if err != nil {
		return err
	}

	// 每个玩家只留最佳记录
	best := make(map[uint64]entity.ScoreRecord, len(records))
	for _, record := range records {
		cur, ok := best[record.UserID]
		if !ok || dominates(record.Score, record.Duration, cur.Score, cur.Duration) {
			best[record.UserID] = record
		}
	}

	// 清掉旧的有序集合和它引用的快照
	key := cache.LeaderboardKey(string(w))
	members, err := s.rdb.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return err
	}
	for _, member := range members {
		if userID, err := strconv.ParseUint(member, 10, 64); err == nil {
			if err := s.rdb.Del(ctx, cache.PlayerKey(string(w), userID)).Err(); err != nil {
				return err
			}
		}
	}
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return err
	}

	if len(best) == 0 {
		return nil
	}

	zs := make([]redis.Z, 0, len(best))
	for userID, record := range best {
		zs = append(zs, redis.Z{
			Score:  float64(record.Score),
			Member: strconv.FormatUint(userID, 10),
		})
		if err := s.rdb.HSet(ctx, cache.PlayerKey(string(w), userID),
			"score", record.Score,
			"duration", record.Duration,
			"endTime", record.CreateTime.Format(time.RFC3339Nano),
		).Err(); err != nil {
			return err
		}
	}
	return s.rdb.ZAdd(ctx, key, zs...).Err()
}
