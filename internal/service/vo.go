package service

import "time"

// 视图对象，缓存里存的就是它们的 JSON 序列化结果

type GameHistoryVO struct {
	Score    int       `json:"score"`
	Duration int       `json:"duration"`
	Date     time.Time `json:"date"`
}

type UserProfileVO struct {
	Username      string          `json:"username"`
	Score         int64           `json:"score"` // 累计总分
	LastLogin     time.Time       `json:"lastLogin"`
	GameHistories []GameHistoryVO `json:"gameHistories"`
}

type PostVO struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Content      string    `json:"content"`
	AuthorName   string    `json:"authorName"`
	CategoryName string    `json:"categoryName"`
	ViewCount    uint64    `json:"viewCount"`
	LikeCount    uint64    `json:"likeCount"`
	CommentCount uint64    `json:"commentCount"`
	CreateTime   time.Time `json:"createTime"`
	// IsLiked 跟当前访问者相关，不进缓存，每次请求现算
	IsLiked bool `json:"isLiked"`
}

type LikeVO struct {
	IsLiked   bool   `json:"isLiked"`
	LikeCount uint64 `json:"likeCount"`
}

type CommentVO struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"userId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreateTime time.Time `json:"createTime"`
}

type ForumCategoryVO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

type FriendVO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type RequestVO struct {
	RequestID   uint64    `json:"requestId"`
	ID          uint64    `json:"id"` // 发起人的用户 ID
	Username    string    `json:"username"`
	RequestTime time.Time `json:"requestTime"`
}
