package service

import (
	"context"
	"errors"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/repo"
)

// ProfileService 个人资料读路径：总分、最近登录、游戏历史，旁路缓存
type ProfileService struct {
	cache  *cache.Cache
	users  repo.UserRepo
	scores repo.ScoreRepo
}

func NewProfileService(c *cache.Cache, users repo.UserRepo, scores repo.ScoreRepo) *ProfileService {
	return &ProfileService{cache: c, users: users, scores: scores}
}

// GetProfile 用户不存在返回 nil, nil
func (s *ProfileService) GetProfile(ctx context.Context, userID uint64) (*UserProfileVO, error) {
	var vo UserProfileVO
	err := s.cache.GetOrLoad(ctx, cache.UserProfileKey(userID), cache.UserProfileTTL, &vo,
		func(ctx context.Context) (any, error) {
			user, err := s.users.GetByID(ctx, userID)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, nil
			}
			sum, err := s.scores.SumScore(ctx, userID)
			if err != nil {
				return nil, err
			}
			records, err := s.scores.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			histories := make([]GameHistoryVO, 0, len(records))
			for _, record := range records {
				histories = append(histories, GameHistoryVO{
					Score:    record.Score,
					Duration: record.Duration,
					Date:     record.CreateTime,
				})
			}
			return &UserProfileVO{
				Username:      user.Username,
				Score:         sum,
				LastLogin:     user.UpdateTime,
				GameHistories: histories,
			}, nil
		})
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vo, nil
}
