package viewcount

import (
	"context"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
	"github.com/1786035110/GameForum/internal/repo"
)

// Batcher 浏览计数器：增量先攒在 Redis，周期性把当前值整体刷回数据库。
// 计数器本身就是累计值而不是增量，所以刷库是幂等的覆盖写，刷完不清零
type Batcher struct {
	rdb   *redis.Client
	posts repo.PostRepo
}

func NewBatcher(rdb *redis.Client, posts repo.PostRepo) *Batcher {
	return &Batcher{rdb: rdb, posts: posts}
}

// RecordView 记一次浏览，返回最新计数。
// 计数器不存在时先用数据库里的浏览量做种子（SETNX，首读并发只有一个写进去），再自增
func (b *Batcher) RecordView(ctx context.Context, postID uint64) (uint64, error) {
	key := cache.ViewCountKey(postID)

	exists, err := b.rdb.Exists(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		var seed uint64
		post, err := b.posts.GetByID(ctx, postID)
		if err != nil {
			return 0, err
		}
		if post != nil {
			seed = post.ViewCount
		}
		// SETNX：并发首读只允许一个种子落地，输掉的直接走 INCR
		if err := b.rdb.SetNX(ctx, key, seed, 0).Err(); err != nil {
			return 0, err
		}
	}

	count, err := b.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return uint64(count), nil
}

// Current 当前计数，计数器不存在返回 0
func (b *Batcher) Current(ctx context.Context, postID uint64) (uint64, error) {
	val, err := b.rdb.Get(ctx, cache.ViewCountKey(postID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// FlushAll 把所有活跃计数器的当前值覆盖写回数据库。
// 绝对值覆盖而不是增量累加，重复刷或半截失败重跑都不会把数字刷大
func (b *Batcher) FlushAll(ctx context.Context) error {
	iter := b.rdb.Scan(ctx, 0, cache.ViewCountPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		postID, ok := cache.ParseViewCountKey(key)
		if !ok {
			log.Printf("viewcount: unexpected counter key %q, skipped", key)
			continue
		}
		val, err := b.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return err
		}
		count, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			log.Printf("viewcount: bad counter value %q for post %d, skipped", val, postID)
			continue
		}
		if err := b.posts.SetViewCount(ctx, postID, count); err != nil {
			return err
		}
	}
	return iter.Err()
}
