package leaderboard

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/repo"
)

// RankEntry 排行榜上的一行，读取时现算，不单独落库
type RankEntry struct {
	Rank     int       `json:"rank"`
	UserID   uint64    `json:"userId"`
	Username string    `json:"username"`
	Score    int       `json:"score"`
	Duration int       `json:"duration"`
	Date     time.Time `json:"date"`
}

// bestRecord 玩家最佳成绩快照（Hash 里的三个字段）
type bestRecord struct {
	Score    int
	Duration int
	EndTime  time.Time
}

// Store 每个窗口一个 ZSet（member=userId, score=分数）加每个玩家一个快照 Hash。
// ZSet 只按分数排序，同分之间的相对顺序由结构本身不保证；
// 时长的平局裁决发生在写入准入时（支配规则），不在读取排序时
type Store struct {
	rdb            *redis.Client
	scores         repo.ScoreRepo
	users          repo.UserRepo
	rebuildLockTTL time.Duration
}

func NewStore(rdb *redis.Client, scores repo.ScoreRepo, users repo.UserRepo, rebuildLockTTL time.Duration) *Store {
	return &Store{rdb: rdb, scores: scores, users: users, rebuildLockTTL: rebuildLockTTL}
}

// dominates 新成绩是否取代当前最佳：分数更高，或同分且用时更短
func dominates(newScore, newDuration, curScore, curDuration int) bool {
	return newScore > curScore || (newScore == curScore && newDuration < curDuration)
}

// UpsertBest 覆盖写窗口 ZSet 里的分数和玩家快照。
// 只能在提交协调器按支配规则判定通过之后调用，Store 本身不做比较
func (s *Store) UpsertBest(ctx context.Context, w Window, userID uint64, score, duration int, endTime time.Time) error {
	member := strconv.FormatUint(userID, 10)
	err := s.rdb.ZAdd(ctx, cache.LeaderboardKey(string(w)), redis.Z{
		Score:  float64(score),
		Member: member,
	}).Err()
	if err != nil {
		return err
	}
	return s.rdb.HSet(ctx, cache.PlayerKey(string(w), userID),
		"score", score,
		"duration", duration,
		"endTime", endTime.Format(time.RFC3339Nano),
	).Err()
}

// bestSnapshot 读玩家在窗口内的最佳成绩快照；快照缺失时回源数据库并回填。
// 没有任何成绩返回 nil, nil
func (s *Store) bestSnapshot(ctx context.Context, w Window, userID uint64) (*bestRecord, error) {
	vals, err := s.rdb.HGetAll(ctx, cache.PlayerKey(string(w), userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) > 0 {
		best := &bestRecord{}
		best.Score, _ = strconv.Atoi(vals["score"])
		best.Duration, _ = strconv.Atoi(vals["duration"])
		best.EndTime, _ = time.Parse(time.RFC3339Nano, vals["endTime"])
		return best, nil
	}

	now := time.Now()
	record, err := s.scores.BestByUserRange(ctx, userID, w.StartTime(now), now)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	if err := s.rdb.HSet(ctx, cache.PlayerKey(string(w), userID),
		"score", record.Score,
		"duration", record.Duration,
		"endTime", record.CreateTime.Format(time.RFC3339Nano),
	).Err(); err != nil {
		return nil, err
	}
	return &bestRecord{Score: record.Score, Duration: record.Duration, EndTime: record.CreateTime}, nil
}

// TopN 读窗口前 n 名（分数从高到低）。窗口为空时同步重建一次再重读；
// 重建撞上别人正在跑（ErrLocked）也照样重读
func (s *Store) TopN(ctx context.Context, w Window, n int64) ([]RankEntry, error) {
	key := cache.LeaderboardKey(string(w))
	tuples, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	if len(tuples) == 0 {
		if err := s.Rebuild(ctx, w); err != nil && !errors.Is(err, ErrLocked) {
			return nil, err
		}
		tuples, err = s.rdb.ZRevRangeWithScores(ctx, key, 0, n-1).Result()
		if err != nil {
			return nil, err
		}
	}

	entries := make([]RankEntry, 0, len(tuples))
	for i, z := range tuples {
		member, _ := z.Member.(string)
		userID, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		best, err := s.bestSnapshot(ctx, w, userID)
		if err != nil {
			return nil, err
		}
		if best == nil {
			// 榜上有名但数据库里查不到成绩，留给下次重建自愈
			log.Printf("leaderboard: user %d on %s board has no durable record, skipped", userID, w)
			continue
		}
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		username := "未知用户"
		if user != nil {
			username = user.Username
		}
		entries = append(entries, RankEntry{
			Rank:     i + 1,
			UserID:   userID,
			Username: username,
			Score:    int(z.Score),
			Duration: best.Duration,
			Date:     best.EndTime,
		})
	}
	return entries, nil
}

// RankOf 玩家在窗口里的名次（从 1 开始），未上榜返回 0
func (s *Store) RankOf(ctx context.Context, w Window, userID uint64) (int, error) {
	member := strconv.FormatUint(userID, 10)
	rank, err := s.rdb.ZRevRank(ctx, cache.LeaderboardKey(string(w)), member).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return int(rank) + 1, nil
}
