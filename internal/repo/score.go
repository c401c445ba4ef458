package repo

import (
	"context"
	"time"

	"github.com/1786035110/GameForum/internal/entity"
)

// ScoreRepo 游戏成绩的持久化契约。成绩只追加，不修改
type ScoreRepo interface {
	// Append 无条件追加一条成绩记录
	Append(ctx context.Context, record *entity.ScoreRecord) error
	// BestByUserRange 查询某用户在时间区间内的最佳成绩（分数降序，同分时长升序），没有返回 nil, nil
	BestByUserRange(ctx context.Context, userID uint64, start, end time.Time) (*entity.ScoreRecord, error)
	// ListRange 查询时间区间内的全部成绩，按分数降序
	ListRange(ctx context.Context, start, end time.Time) ([]entity.ScoreRecord, error)
	// ListByUser 查询某用户的全部历史成绩
	ListByUser(ctx context.Context, userID uint64) ([]entity.ScoreRecord, error)
	// SumScore 某用户的累计总分
	SumScore(ctx context.Context, userID uint64) (int64, error)
}
