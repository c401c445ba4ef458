package leaderboard

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLocked 租约已被其他持有者占用。不排队不内部重试，调用方稍后再试
var ErrLocked = errors.New("leaderboard: lease already held")

// releaseScript 只删除自己持有的租约：租约过期后被别人抢到时，
// 迟到的释放不能误删新持有者的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lease 存在 Redis 里的短租约，跨进程互斥用。
// TTL 到期自动释放，持有者崩溃也不会把键永久锁死
type Lease struct {
	rdb   *redis.Client
	key   string
	token string
}

// AcquireLease SETNX 抢占租约，已被持有返回 ErrLocked
func AcquireLease(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (*Lease, error) {
	token := strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + strconv.FormatInt(rand.Int63(), 10)
	ok, err := rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lease{rdb: rdb, key: key, token: token}, nil
}

// Release 所有退出路径都必须调用，包括出错路径（defer 保证）
func (l *Lease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err()
}
