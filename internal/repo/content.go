package repo

import (
	"context"

	"github.com/1786035110/GameForum/internal/entity"
)

// UserRepo 用户查询契约
type UserRepo interface {
	// GetByID 没找到返回 nil, nil
	GetByID(ctx context.Context, userID uint64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetBatch 按 ID 批量查询
	GetBatch(ctx context.Context, userIDs []uint64) ([]entity.User, error)
}

// PostRepo 帖子契约
type PostRepo interface {
	GetByID(ctx context.Context, postID uint64) (*entity.Post, error)
	Create(ctx context.Context, post *entity.Post) error
	// SetViewCount 浏览量的绝对值覆盖写（由批量同步任务调用，可重复执行）
	SetViewCount(ctx context.Context, postID uint64, count uint64) error
	// AddLikeCount delta 为 +1 / -1
	AddLikeCount(ctx context.Context, postID uint64, delta int) error
	AddCommentCount(ctx context.Context, postID uint64, delta int) error
}

// CommentRepo 评论契约
type CommentRepo interface {
	Create(ctx context.Context, comment *entity.Comment) error
	// ListByPost 按创建时间降序
	ListByPost(ctx context.Context, postID uint64) ([]entity.Comment, error)
}

// CategoryRepo 论坛分类契约
type CategoryRepo interface {
	ListAll(ctx context.Context) ([]entity.Category, error)
}

// FollowRepo 好友关系契约
type FollowRepo interface {
	ListFollowIDs(ctx context.Context, userID uint64) ([]uint64, error)
	CreatePair(ctx context.Context, userID, friendID uint64) error
	// DeletePair 双向删除，任一方向删除成功即返回 true
	DeletePair(ctx context.Context, userID, friendID uint64) (bool, error)
}

// FriendRequestRepo 好友请求契约
type FriendRequestRepo interface {
	Create(ctx context.Context, req *entity.FriendRequest) error
	GetByID(ctx context.Context, requestID uint64) (*entity.FriendRequest, error)
	ListByToUser(ctx context.Context, userID uint64) ([]entity.FriendRequest, error)
	Delete(ctx context.Context, requestID uint64) error
}
