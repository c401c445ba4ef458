package entity

import "time"

// User 用户表
type User struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Username   string `gorm:"type:varchar(64);uniqueIndex"`
	Password   string `gorm:"type:varchar(128)"`
	CreateTime time.Time
	UpdateTime time.Time
}

func (User) TableName() string { return "tb_user" }

// ScoreRecord 一局游戏的成绩，写入后不可变，一次提交一行
type ScoreRecord struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	UserID   uint64 `gorm:"index"`
	Score    int
	Duration int
	// 游戏结束时间，作为记录时间
	CreateTime time.Time `gorm:"index"`
}

func (ScoreRecord) TableName() string { return "tb_game_leaderboard" }

// Post 帖子表
type Post struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	AuthorID     uint64 `gorm:"index"`
	CategoryID   uint64 `gorm:"index"`
	Title        string `gorm:"type:varchar(128)"`
	Summary      string `gorm:"type:varchar(256)"`
	Content      string `gorm:"type:text"`
	ViewCount    uint64 `gorm:"default:0"`
	LikeCount    uint64 `gorm:"default:0"`
	CommentCount uint64 `gorm:"default:0"`
	CreateTime   time.Time
}

func (Post) TableName() string { return "tb_post" }

// Comment 评论表
type Comment struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	PostID     uint64 `gorm:"index"`
	UserID     uint64
	Content    string `gorm:"type:varchar(512)"`
	CreateTime time.Time
}

func (Comment) TableName() string { return "tb_comment" }

// Category 论坛分类表
type Category struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(64)"`
	SortOrder int
}

func (Category) TableName() string { return "tb_category" }

// Follow 好友关系（互相关注即为好友）
type Follow struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	UserID       uint64 `gorm:"index"`
	FollowUserID uint64
}

func (Follow) TableName() string { return "tb_follow" }

// FriendRequest 好友请求表
type FriendRequest struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	FromUserID uint64
	ToUserID   uint64 `gorm:"index"`
	Status     int    `gorm:"default:0"`
	CreateTime time.Time
}

func (FriendRequest) TableName() string { return "tb_friend_request" }
