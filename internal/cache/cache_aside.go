package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound 回源之后底层实体也不存在。调用方按"空结果"处理，
// 此时缓存里已经写入了短 TTL 的空值标记
var ErrNotFound = errors.New("cache: entity not found")

// Loader 回源函数，查询持久层。实体不存在时返回 nil, nil
type Loader func(ctx context.Context) (any, error)

// Cache 旁路缓存：读走缓存，未命中回源并回填；写方在落库后显式 Invalidate。
// 每个条目整值替换，读方最多读到 TTL 级别的旧值，不会读到半新半旧的混合值
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// GetOrLoad 查缓存，命中则反序列化进 dest；未命中调用 loader 回源，
// 结果序列化后带 TTL 写回再返回。loader 返回 nil 时写入空值标记并返回 ErrNotFound。
// 同一个 key 的并发回源由 singleflight 合并成一次
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, dest any, loader Loader) error {
	raw, err, _ := c.sf.Do(key, func() (interface{}, error) {
		val, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			if val == nullMarker {
				return nil, ErrNotFound
			}
			return []byte(val), nil
		}
		if !errors.Is(err, redis.Nil) {
			return nil, err
		}

		// 回源
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			// 空值缓存，防止对不存在的实体反复回源
			if err := c.rdb.Set(ctx, key, nullMarker, NullTTL).Err(); err != nil {
				return nil, err
			}
			return nil, ErrNotFound
		}

		data, err := json.Marshal(loaded)
		if err != nil {
			return nil, err
		}
		if err := c.rdb.Set(ctx, key, data, withJitter(ttl)).Err(); err != nil {
			return nil, err
		}
		return []byte(data), nil
	})
	if err != nil {
		return err
	}
	data, ok := raw.([]byte)
	if !ok {
		return errors.New("cache: internal type error")
	}
	return json.Unmarshal(data, dest)
}

// Invalidate 无条件删除缓存条目。写路径在持久层变更之后、返回之前同步调用，
// 把脏读窗口压到"至多一个并发读"
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
