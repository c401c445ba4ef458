package identity

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/1786035110/GameForum/internal/cache"
)

// Identity 本次请求已解析好的访问者身份。
// 引擎只消费身份，不做认证；身份必须作为显式参数传进每个调用，
// 不允许藏在任何进程级的隐式状态里
type Identity struct {
	UserID   uint64
	Username string
}

// Provider 按登录令牌解析身份，令牌无效返回 nil, nil
type Provider interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// redisProvider 登录态存在 login:token:{token} 的 Hash 里，
// 每次命中顺带续期（滑动过期）
type redisProvider struct {
	rdb *redis.Client
}

var _ Provider = (*redisProvider)(nil)

func NewRedisProvider(rdb *redis.Client) Provider {
	return &redisProvider{rdb: rdb}
}

func (p *redisProvider) Resolve(ctx context.Context, token string) (*Identity, error) {
	key := cache.LoginTokenKey(token)
	vals, err := p.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	userID, err := strconv.ParseUint(vals["userId"], 10, 64)
	if err != nil {
		return nil, nil
	}
	// 续期，活跃会话不掉线
	if err := p.rdb.Expire(ctx, key, cache.LoginTokenTTL).Err(); err != nil {
		return nil, err
	}
	return &Identity{UserID: userID, Username: vals["username"]}, nil
}
