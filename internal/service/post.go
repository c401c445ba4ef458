package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/entity"
	"github.com/1786035110/GameForum/internal/repo"
	"github.com/1786035110/GameForum/internal/viewcount"
)

// PostService 帖子详情读路径 + 点赞。
// 详情走旁路缓存，浏览量走计数批处理器，点赞状态跟访问者相关不进缓存
type PostService struct {
	cache      *cache.Cache
	rdb        *redis.Client
	posts      repo.PostRepo
	users      repo.UserRepo
	categories repo.CategoryRepo
	views      *viewcount.Batcher
}

func NewPostService(c *cache.Cache, rdb *redis.Client, posts repo.PostRepo, users repo.UserRepo, categories repo.CategoryRepo, views *viewcount.Batcher) *PostService {
	return &PostService{cache: c, rdb: rdb, posts: posts, users: users, categories: categories, views: views}
}

// GetPost 帖子不存在返回 nil, nil（缓存里留了短 TTL 空值标记）。
// 每次读都会给浏览计数 +1，返回的浏览量是计数器里的最新值
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint64) (*PostVO, error) {
	viewCount, err := s.views.RecordView(ctx, postID)
	if err != nil {
		return nil, err
	}

	var vo PostVO
	err = s.cache.GetOrLoad(ctx, cache.PostKey(postID), cache.PostTTL, &vo,
		func(ctx context.Context) (any, error) {
			post, err := s.posts.GetByID(ctx, postID)
			if err != nil {
				return nil, err
			}
			if post == nil {
				return nil, nil
			}
			authorName := "未知用户"
			if author, err := s.users.GetByID(ctx, post.AuthorID); err != nil {
				return nil, err
			} else if author != nil {
				authorName = author.Username
			}
			categoryName := ""
			if categories, err := s.categories.ListAll(ctx); err != nil {
				return nil, err
			} else {
				for _, category := range categories {
					if category.ID == post.CategoryID {
						categoryName = category.Name
						break
					}
				}
			}
			return &PostVO{
				ID:           post.ID,
				Title:        post.Title,
				Summary:      post.Summary,
				Content:      post.Content,
				AuthorName:   authorName,
				CategoryName: categoryName,
				LikeCount:    post.LikeCount,
				CommentCount: post.CommentCount,
				CreateTime:   post.CreateTime,
			}, nil
		})
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// 访问者相关的字段在缓存之外补
	vo.ViewCount = viewCount
	liked, err := s.rdb.SIsMember(ctx, cache.PostLikedKey(postID), strconv.FormatUint(viewerID, 10)).Result()
	if err != nil {
		return nil, err
	}
	vo.IsLiked = liked
	return &vo, nil
}

// CreatePost 发帖，返回帖子 ID
func (s *PostService) CreatePost(ctx context.Context, authorID, categoryID uint64, title, summary, content string) (uint64, error) {
	post := &entity.Post{
		AuthorID:   authorID,
		CategoryID: categoryID,
		Title:      title,
		Summary:    summary,
		Content:    content,
		CreateTime: time.Now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return 0, err
	}
	return post.ID, nil
}

// LikePost 点赞开关：没赞过就点赞，赞过就取消。落库之后同步失效帖子缓存
func (s *PostService) LikePost(ctx context.Context, postID, userID uint64) (*LikeVO, error) {
	key := cache.PostLikedKey(postID)
	member := strconv.FormatUint(userID, 10)

	liked, err := s.rdb.SIsMember(ctx, key, member).Result()
	if err != nil {
		return nil, err
	}
	if !liked {
		if err := s.posts.AddLikeCount(ctx, postID, 1); err != nil {
			return nil, err
		}
		if err := s.rdb.SAdd(ctx, key, member).Err(); err != nil {
			return nil, err
		}
	} else {
		if err := s.posts.AddLikeCount(ctx, postID, -1); err != nil {
			return nil, err
		}
		if err := s.rdb.SRem(ctx, key, member).Err(); err != nil {
			return nil, err
		}
	}

	if err := s.cache.Invalidate(ctx, cache.PostKey(postID)); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	var likeCount uint64
	if post != nil {
		likeCount = post.LikeCount
	}
	return &LikeVO{IsLiked: !liked, LikeCount: likeCount}, nil
}
