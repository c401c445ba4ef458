package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/entity"
	"github.com/1786035110/GameForum/internal/repo"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.New(client)
}

type fakeUserRepo struct {
	users    map[uint64]entity.User
	getCalls int
}

var _ repo.UserRepo = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) GetByID(ctx context.Context, userID uint64) (*entity.User, error) {
	f.getCalls++
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

type fakeScoreRepo struct {
	records []entity.ScoreRecord
}

var _ repo.ScoreRepo = (*fakeScoreRepo)(nil)

func (f *fakeScoreRepo) Append(ctx context.Context, record *entity.ScoreRecord) error {
	record.ID = uint64(len(f.records) + 1)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeScoreRepo) BestByUserRange(ctx context.Context, userID uint64, start, end time.Time) (*entity.ScoreRecord, error) {
	var best *entity.ScoreRecord
	for i := range f.records {
		r := f.records[i]
		if r.UserID != userID || r.CreateTime.Before(start) || r.CreateTime.After(end) {
			continue
		}
		if best == nil || r.Score > best.Score || (r.Score == best.Score && r.Duration < best.Duration) {
			cp := r
			best = &cp
		}
	}
	return best, nil
}

func (f *fakeScoreRepo) ListRange(ctx context.Context, start, end time.Time) ([]entity.ScoreRecord, error) {
	var out []entity.ScoreRecord
	for _, r := range f.records {
		if !r.CreateTime.Before(start) && !r.CreateTime.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeScoreRepo) ListByUser(ctx context.Context, userID uint64) ([]entity.ScoreRecord, error) {
	var out []entity.ScoreRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeScoreRepo) SumScore(ctx context.Context, userID uint64) (int64, error) {
	var sum int64
	for _, r := range f.records {
		if r.UserID == userID {
			sum += int64(r.Score)
		}
	}
	return sum, nil
}

type fakeCommentRepo struct {
	comments  []entity.Comment
	listCalls int
}

var _ repo.CommentRepo = (*fakeCommentRepo)(nil)

func (f *fakeCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	comment.ID = uint64(len(f.comments) + 1)
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID uint64) ([]entity.Comment, error) {
	f.listCalls++
	var out []entity.Comment
	// 按创建时间降序，这里用倒序插入顺序近似
	for i := len(f.comments) - 1; i >= 0; i-- {
		if f.comments[i].PostID == postID {
			out = append(out, f.comments[i])
		}
	}
	return out, nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uint64]*entity.Post
}

var _ repo.PostRepo = (*fakePostRepo)(nil)

func (f *fakePostRepo) GetByID(ctx context.Context, postID uint64) (*entity.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[postID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) Create(ctx context.Context, post *entity.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = uint64(len(f.posts) + 1)
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) SetViewCount(ctx context.Context, postID uint64, count uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[postID]; ok {
		p.ViewCount = count
	}
	return nil
}

func (f *fakePostRepo) AddLikeCount(ctx context.Context, postID uint64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[postID]; ok {
		p.LikeCount = uint64(int(p.LikeCount) + delta)
	}
	return nil
}

func (f *fakePostRepo) AddCommentCount(ctx context.Context, postID uint64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.posts[postID]; ok {
		p.CommentCount = uint64(int(p.CommentCount) + delta)
	}
	return nil
}
