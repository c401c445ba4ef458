package leaderboard

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/entity"
	"github.com/1786035110/GameForum/internal/repo"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

// fakeScoreRepo 内存版成绩仓库
type fakeScoreRepo struct {
	mu             sync.Mutex
	records        []entity.ScoreRecord
	nextID         uint64
	listRangeCalls int
}

var _ repo.ScoreRepo = (*fakeScoreRepo)(nil)

func (f *fakeScoreRepo) Append(ctx context.Context, record *entity.ScoreRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	record.ID = f.nextID
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeScoreRepo) BestByUserRange(ctx context.Context, userID uint64, start, end time.Time) (*entity.ScoreRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *entity.ScoreRecord
	for i := range f.records {
		r := f.records[i]
		if r.UserID != userID || r.CreateTime.Before(start) || r.CreateTime.After(end) {
			continue
		}
		if best == nil || dominates(r.Score, r.Duration, best.Score, best.Duration) {
			cp := r
			best = &cp
		}
	}
	return best, nil
}

func (f *fakeScoreRepo) ListRange(ctx context.Context, start, end time.Time) ([]entity.ScoreRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listRangeCalls++
	var out []entity.ScoreRecord
	for _, r := range f.records {
		if r.CreateTime.Before(start) || r.CreateTime.After(end) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (f *fakeScoreRepo) ListByUser(ctx context.Context, userID uint64) ([]entity.ScoreRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.ScoreRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeScoreRepo) SumScore(ctx context.Context, userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, r := range f.records {
		if r.UserID == userID {
			sum += int64(r.Score)
		}
	}
	return sum, nil
}

type fakeUserRepo struct {
	users map[uint64]entity.User
}

var _ repo.UserRepo = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) GetByID(ctx context.Context, userID uint64) (*entity.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetBatch(ctx context.Context, userIDs []uint64) ([]entity.User, error) {
	var out []entity.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func newTestStore(t *testing.T) (*Store, *fakeScoreRepo, *redis.Client) {
	t.Helper()
	client, _ := newTestRedis(t)
	scores := &fakeScoreRepo{}
	users := &fakeUserRepo{users: map[uint64]entity.User{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, Username: "bob"},
		3: {ID: 3, Username: "carol"},
	}}
	return NewStore(client, scores, users, 30*time.Second), scores, client
}
