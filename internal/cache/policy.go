package cache

import (
	"math/rand"
	"time"
)

const (
	UserProfileTTL  = 1440 * time.Minute
	PostTTL         = 1440 * time.Minute
	PostCommentsTTL = 24 * time.Hour
	CategoriesTTL   = 36000 * time.Minute
	FriendListTTL   = 1440 * time.Minute

	LoginTokenTTL = 36000 * time.Minute

	// NullTTL 空值标记的过期时间，防止缓存穿透的同时不长期占坑
	NullTTL = 5 * time.Minute

	// nullMarker 空值标记，JSON 序列化结果永远不会是空串，不会冲突
	nullMarker = ""
)

// withJitter 在基础 TTL 上加最多 10% 的随机抖动，防止缓存雪崩
func withJitter(ttl time.Duration) time.Duration {
	if ttl < time.Minute {
		return ttl
	}
	return ttl + time.Duration(rand.Int63n(int64(ttl/10)))
}
