package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// 键语义：
// - 派生读缓存统一挂在 cache: 前缀下，整值 JSON 串，带 TTL
// - leaderboard:snake:{window}            排行榜有序集合（ZSet<userId, score>）
// - leaderboard:snake:player:{window}:{id} 玩家最佳成绩快照（Hash: score/duration/endTime）
// - post:view:count:{postId}              浏览计数器（String，累计值而非增量）
// - lock:*                                带 TTL 的互斥租约（SETNX）
const (
	keyUserProfileFmt   = "cache:user:profile:%d"
	keyFriendListFmt    = "cache:friend:list:%d"
	keyFriendRequestFmt = "cache:friend:request:list:%d"
	keyForumCategories  = "cache:forum:categories"
	keyPostCommentsFmt  = "cache:post:comments:%d"
	keyPostFmt          = "cache:post:%d"

	keyPostLikedFmt = "blog:liked:%d" // Set<userId>

	// ViewCountPrefix 浏览计数器前缀，批量同步任务按它 SCAN
	ViewCountPrefix = "post:view:count:"

	keyLoginTokenFmt = "login:token:%s" // Hash<field -> value>

	keyLeaderboardFmt = "leaderboard:snake:%s"
	keyPlayerFmt      = "leaderboard:snake:player:%s:%d"

	keySubmitLockFmt  = "lock:leaderboard:%d"
	keyRebuildLockFmt = "lock:leaderboard:rebuild:%s"
	keyFlushLock      = "lock:viewcount:flush"
)

func UserProfileKey(userID uint64) string   { return fmt.Sprintf(keyUserProfileFmt, userID) }
func FriendListKey(userID uint64) string    { return fmt.Sprintf(keyFriendListFmt, userID) }
func FriendRequestKey(userID uint64) string { return fmt.Sprintf(keyFriendRequestFmt, userID) }
func ForumCategoriesKey() string            { return keyForumCategories }
func PostCommentsKey(postID uint64) string  { return fmt.Sprintf(keyPostCommentsFmt, postID) }
func PostKey(postID uint64) string          { return fmt.Sprintf(keyPostFmt, postID) }
func PostLikedKey(postID uint64) string     { return fmt.Sprintf(keyPostLikedFmt, postID) }
func LoginTokenKey(token string) string     { return fmt.Sprintf(keyLoginTokenFmt, token) }

func ViewCountKey(postID uint64) string {
	return ViewCountPrefix + strconv.FormatUint(postID, 10)
}

// ParseViewCountKey 从计数器键里取出 postID
func ParseViewCountKey(key string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(key, ViewCountPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func LeaderboardKey(window string) string { return fmt.Sprintf(keyLeaderboardFmt, window) }
func PlayerKey(window string, userID uint64) string {
	return fmt.Sprintf(keyPlayerFmt, window, userID)
}

func SubmitLockKey(userID uint64) string { return fmt.Sprintf(keySubmitLockFmt, userID) }
func RebuildLockKey(window string) string {
	return fmt.Sprintf(keyRebuildLockFmt, window)
}
func FlushLockKey() string { return keyFlushLock }
