package service

import (
	"context"
	"errors"
	"time"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/entity"
	"github.com/1786035110/GameForum/internal/repo"
)

// CommentService 评论列表读路径 + 发表评论
type CommentService struct {
	cache    *cache.Cache
	comments repo.CommentRepo
	posts    repo.PostRepo
	users    repo.UserRepo
}

func NewCommentService(c *cache.Cache, comments repo.CommentRepo, posts repo.PostRepo, users repo.UserRepo) *CommentService {
	return &CommentService{cache: c, comments: comments, posts: posts, users: users}
}

// ListComments 按创建时间降序。没有评论时返回空列表（短 TTL 空值标记挡穿透）
func (s *CommentService) ListComments(ctx context.Context, postID uint64) ([]CommentVO, error) {
	var vos []CommentVO
	err := s.cache.GetOrLoad(ctx, cache.PostCommentsKey(postID), cache.PostCommentsTTL, &vos,
		func(ctx context.Context) (any, error) {
			comments, err := s.comments.ListByPost(ctx, postID)
			if err != nil {
				return nil, err
			}
			if len(comments) == 0 {
				return nil, nil
			}
			list := make([]CommentVO, 0, len(comments))
			for _, comment := range comments {
				authorName := "未知用户"
				if user, err := s.users.GetByID(ctx, comment.UserID); err != nil {
					return nil, err
				} else if user != nil {
					authorName = user.Username
				}
				list = append(list, CommentVO{
					ID:         comment.ID,
					UserID:     comment.UserID,
					AuthorName: authorName,
					Content:    comment.Content,
					CreateTime: comment.CreateTime,
				})
			}
			return list, nil
		})
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return []CommentVO{}, nil
		}
		return nil, err
	}
	return vos, nil
}

// CreateComment 落库、帖子评论数 +1，然后同步失效评论列表和帖子详情缓存
func (s *CommentService) CreateComment(ctx context.Context, postID, userID uint64, username, content string) (*CommentVO, error) {
	comment := &entity.Comment{
		PostID:     postID,
		UserID:     userID,
		Content:    content,
		CreateTime: time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.posts.AddCommentCount(ctx, postID, 1); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, cache.PostCommentsKey(postID), cache.PostKey(postID)); err != nil {
		return nil, err
	}
	return &CommentVO{
		ID:         comment.ID,
		UserID:     userID,
		AuthorName: username,
		Content:    content,
		CreateTime: comment.CreateTime,
	}, nil
}
