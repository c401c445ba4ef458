package service

import (
	"context"
	"errors"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/repo"
)

// CategoryService 论坛分类，变化极少，长 TTL 旁路缓存
type CategoryService struct {
	cache      *cache.Cache
	categories repo.CategoryRepo
}

func NewCategoryService(c *cache.Cache, categories repo.CategoryRepo) *CategoryService {
	return &CategoryService{cache: c, categories: categories}
}

func (s *CategoryService) GetForumCategories(ctx context.Context) ([]ForumCategoryVO, error) {
	var vos []ForumCategoryVO
	err := s.cache.GetOrLoad(ctx, cache.ForumCategoriesKey(), cache.CategoriesTTL, &vos,
		func(ctx context.Context) (any, error) {
			categories, err := s.categories.ListAll(ctx)
			if err != nil {
				return nil, err
			}
			list := make([]ForumCategoryVO, 0, len(categories))
			for _, category := range categories {
				list = append(list, ForumCategoryVO{
					ID:        category.ID,
					Name:      category.Name,
					SortOrder: category.SortOrder,
				})
			}
			return list, nil
		})
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return []ForumCategoryVO{}, nil
		}
		return nil, err
	}
	return vos, nil
}
