package service

import (
	"context"
	"errors"
	"time"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/entity"
	"github.com/1786035110/GameForum/internal/repo"
)

var (
	ErrUserNotFound   = errors.New("service: user not found")
	ErrSelfFriend     = errors.New("service: cannot befriend yourself")
	ErrRequestMissing = errors.New("service: friend request not found")
)

// FriendService 好友列表、好友请求，旁路缓存，写路径同步失效
type FriendService struct {
	cache    *cache.Cache
	follows  repo.FollowRepo
	users    repo.UserRepo
	requests repo.FriendRequestRepo
}

func NewFriendService(c *cache.Cache, follows repo.FollowRepo, users repo.UserRepo, requests repo.FriendRequestRepo) *FriendService {
	return &FriendService{cache: c, follows: follows, users: users, requests: requests}
}

// GetFriendList 没有好友时返回空列表
func (s *FriendService) GetFriendList(ctx context.Context, userID uint64) ([]FriendVO, error) {
	var vos []FriendVO
	err := s.cache.GetOrLoad(ctx, cache.FriendListKey(userID), cache.FriendListTTL, &vos,
		func(ctx context.Context) (any, error) {
			ids, err := s.follows.ListFollowIDs(ctx, userID)
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return nil, nil
			}
			users, err := s.users.GetBatch(ctx, ids)
			if err != nil {
				return nil, err
			}
			list := make([]FriendVO, 0, len(users))
			for _, user := range users {
				list = append(list, FriendVO{ID: user.ID, Username: user.Username})
			}
			return list, nil
		})
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return []FriendVO{}, nil
		}
		return nil, err
	}
	return vos, nil
}

// SendFriendRequest 按用户名发好友请求
func (s *FriendService) SendFriendRequest(ctx context.Context, fromUserID uint64, toUsername string) error {
	toUser, err := s.users.GetByUsername(ctx, toUsername)
	if err != nil {
		return err
	}
	if toUser == nil {
		return ErrUserNotFound
	}
	if toUser.ID == fromUserID {
		return ErrSelfFriend
	}
	req := &entity.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   toUser.ID,
		CreateTime: time.Now(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, cache.FriendRequestKey(toUser.ID))
}

// GetFriendRequests 发给当前用户的待处理请求
func (s *FriendService) GetFriendRequests(ctx context.Context, userID uint64) ([]RequestVO, error) {
	var vos []RequestVO
	err := s.cache.GetOrLoad(ctx, cache.FriendRequestKey(userID), cache.FriendListTTL, &vos,
		func(ctx context.Context) (any, error) {
			reqs, err := s.requests.ListByToUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			if len(reqs) == 0 {
				return nil, nil
			}
			list := make([]RequestVO, 0, len(reqs))
			for _, req := range reqs {
				username := "未知用户"
				if user, err := s.users.GetByID(ctx, req.FromUserID); err != nil {
					return nil, err
				} else if user != nil {
					username = user.Username
				}
				list = append(list, RequestVO{
					RequestID:   req.ID,
					ID:          req.FromUserID,
					Username:    username,
					RequestTime: req.CreateTime,
				})
			}
			return list, nil
		})
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return []RequestVO{}, nil
		}
		return nil, err
	}
	return vos, nil
}

// AcceptFriendRequest 建立双向好友关系并删除请求，相关缓存全部失效
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint64) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil || req.ToUserID != userID {
		return ErrRequestMissing
	}
	if err := s.follows.CreatePair(ctx, userID, req.FromUserID); err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, requestID); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx,
		cache.FriendRequestKey(userID),
		cache.FriendListKey(userID),
		cache.FriendListKey(req.FromUserID),
	)
}

// DeleteFriend 双向解除好友关系
func (s *FriendService) DeleteFriend(ctx context.Context, userID, friendID uint64) (bool, error) {
	ok, err := s.follows.DeletePair(ctx, userID, friendID)
	if err != nil {
		return false, err
	}
	if err := s.cache.Invalidate(ctx, cache.FriendListKey(userID), cache.FriendListKey(friendID)); err != nil {
		return false, err
	}
	return ok, nil
}
