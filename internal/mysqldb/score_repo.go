package mysqldb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/1786035110/GameForum/internal/entity"
	"github.com/1786035110/GameForum/internal/repo"
)

type mysqlScoreRepo struct {
	db *gorm.DB
}

var _ repo.ScoreRepo = (*mysqlScoreRepo)(nil)

func NewMySQLScoreRepo(db *gorm.DB) repo.ScoreRepo {
	return &mysqlScoreRepo{db: db}
}

func (r *mysqlScoreRepo) Append(ctx context.Context, record *entity.ScoreRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *mysqlScoreRepo) BestByUserRange(ctx context.Context, userID uint64, start, end time.Time) (*entity.ScoreRecord, error) {
	var record entity.ScoreRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND create_time >= ? AND create_time <= ?", userID, start, end).
		Order("score DESC, duration ASC").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *mysqlScoreRepo) ListRange(ctx context.Context, start, end time.Time) ([]entity.ScoreRecord, error) {
	var records []entity.ScoreRecord
	err := r.db.WithContext(ctx).
		Where("create_time >= ? AND create_time <= ?", start, end).
		Order("score DESC").
		Find(&records).Error
	return records, err
}

func (r *mysqlScoreRepo) ListByUser(ctx context.Context, userID uint64) ([]entity.ScoreRecord, error) {
	var records []entity.ScoreRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("create_time DESC").
		Find(&records).Error
	return records, err
}

func (r *mysqlScoreRepo) SumScore(ctx context.Context, userID uint64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&entity.ScoreRecord{}).
		Where("user_id = ?", userID).
		Select("IFNULL(SUM(score), 0)").
		Scan(&sum).Error
	return sum, err
}
