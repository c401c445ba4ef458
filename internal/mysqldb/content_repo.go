package mysqldb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/1786035110/GameForum/internal/entity"
	"github.com/1786035110/GameForum/internal/repo"
)

// notFoundToNil gorm 的"没找到"不算错误，统一映射为 nil, nil
func notFoundToNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

type mysqlUserRepo struct{ db *gorm.DB }

var _ repo.UserRepo = (*mysqlUserRepo)(nil)

func NewMySQLUserRepo(db *gorm.DB) repo.UserRepo { return &mysqlUserRepo{db: db} }

func (r *mysqlUserRepo) GetByID(ctx context.Context, userID uint64) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &user, nil
}

func (r *mysqlUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, notFoundToNil(err)
	}
	return &user, nil
}

func (r *mysqlUserRepo) GetBatch(ctx context.Context, userIDs []uint64) ([]entity.User, error) {
	var users []entity.User
	if len(userIDs) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	return users, err
}

type mysqlPostRepo struct{ db *gorm.DB }

var _ repo.PostRepo = (*mysqlPostRepo)(nil)

func NewMySQLPostRepo(db *gorm.DB) repo.PostRepo { return &mysqlPostRepo{db: db} }

func (r *mysqlPostRepo) GetByID(ctx context.Context, postID uint64) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &post, nil
}

func (r *mysqlPostRepo) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *mysqlPostRepo) SetViewCount(ctx context.Context, postID uint64, count uint64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ?", postID).
		Update("view_count", count).Error
}

func (r *mysqlPostRepo) AddLikeCount(ctx context.Context, postID uint64, delta int) error {
	return r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ?", postID).
		Update("like_count", gorm.Expr("like_count + ?", delta)).Error
}

func (r *mysqlPostRepo) AddCommentCount(ctx context.Context, postID uint64, delta int) error {
	return r.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("id = ?", postID).
		Update("comment_count", gorm.Expr("comment_count + ?", delta)).Error
}

type mysqlCommentRepo struct{ db *gorm.DB }

var _ repo.CommentRepo = (*mysqlCommentRepo)(nil)

func NewMySQLCommentRepo(db *gorm.DB) repo.CommentRepo { return &mysqlCommentRepo{db: db} }

func (r *mysqlCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *mysqlCommentRepo) ListByPost(ctx context.Context, postID uint64) ([]entity.Comment, error) {
	var comments []entity.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("create_time DESC").
		Find(&comments).Error
	return comments, err
}

type mysqlCategoryRepo struct{ db *gorm.DB }

var _ repo.CategoryRepo = (*mysqlCategoryRepo)(nil)

func NewMySQLCategoryRepo(db *gorm.DB) repo.CategoryRepo { return &mysqlCategoryRepo{db: db} }

func (r *mysqlCategoryRepo) ListAll(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&categories).Error
	return categories, err
}

type mysqlFollowRepo struct{ db *gorm.DB }

var _ repo.FollowRepo = (*mysqlFollowRepo)(nil)

func NewMySQLFollowRepo(db *gorm.DB) repo.FollowRepo { return &mysqlFollowRepo{db: db} }

func (r *mysqlFollowRepo) ListFollowIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("user_id = ?", userID).
		Pluck("follow_user_id", &ids).Error
	return ids, err
}

func (r *mysqlFollowRepo) CreatePair(ctx context.Context, userID, friendID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entity.Follow{UserID: userID, FollowUserID: friendID}).Error; err != nil {
			return err
		}
		return tx.Create(&entity.Follow{UserID: friendID, FollowUserID: userID}).Error
	})
}

func (r *mysqlFollowRepo) DeletePair(ctx context.Context, userID, friendID uint64) (bool, error) {
	res1 := r.db.WithContext(ctx).
		Where("user_id = ? AND follow_user_id = ?", userID, friendID).
		Delete(&entity.Follow{})
	if res1.Error != nil {
		return false, res1.Error
	}
	res2 := r.db.WithContext(ctx).
		Where("user_id = ? AND follow_user_id = ?", friendID, userID).
		Delete(&entity.Follow{})
	if res2.Error != nil {
		return false, res2.Error
	}
	return res1.RowsAffected > 0 || res2.RowsAffected > 0, nil
}

type mysqlFriendRequestRepo struct{ db *gorm.DB }

var _ repo.FriendRequestRepo = (*mysqlFriendRequestRepo)(nil)

func NewMySQLFriendRequestRepo(db *gorm.DB) repo.FriendRequestRepo {
	return &mysqlFriendRequestRepo{db: db}
}

func (r *mysqlFriendRequestRepo) Create(ctx context.Context, req *entity.FriendRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *mysqlFriendRequestRepo) GetByID(ctx context.Context, requestID uint64) (*entity.FriendRequest, error) {
	var req entity.FriendRequest
	if err := r.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		return nil, notFoundToNil(err)
	}
	return &req, nil
}

func (r *mysqlFriendRequestRepo) ListByToUser(ctx context.Context, userID uint64) ([]entity.FriendRequest, error) {
	var reqs []entity.FriendRequest
	err := r.db.WithContext(ctx).
		Where("to_user_id = ?", userID).
		Order("create_time DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *mysqlFriendRequestRepo) Delete(ctx context.Context, requestID uint64) error {
	return r.db.WithContext(ctx).Delete(&entity.FriendRequest{}, requestID).Error
}
