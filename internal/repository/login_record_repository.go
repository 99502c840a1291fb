package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"communityboard/internal/model"
)

type LoginRecordRepository struct {
	db *gorm.DB
}

// HistoryRow is one login event joined with the owning user's name.
// Username is nil when the user row is unexpectedly absent.
type HistoryRow struct {
	LoginTime time.Time
	IPAddress string
	Username  *string
}

// LoginCount is a per-user login tally within a ranking window.
type LoginCount struct {
	UserID uint
	Count  int64
}

func NewLoginRecordRepository(db *gorm.DB) *LoginRecordRepository {
	return &LoginRecordRepository{db: db}
}

func (r *LoginRecordRepository) Create(ctx context.Context, record *model.LoginRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create login record failed: %w", err)
	}
	return nil
}

func (r *LoginRecordRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]HistoryRow, error) {
	var rows []HistoryRow
	if err := r.db.WithContext(ctx).Model(&model.LoginRecord{}).
		Select("login_records.login_time", "login_records.ip_address", "users.username").
		Joins("LEFT JOIN users ON users.id = login_records.user_id").
		Where("login_records.user_id = ?", userID).
		Order("login_records.login_time DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list login history failed: %w", err)
	}
	return rows, nil
}

// CountByUserWithin tallies logins per user inside [start, end] inclusive,
// highest tally first, capped at limit users. The relative order of equal
// tallies is unspecified.
func (r *LoginRecordRepository) CountByUserWithin(ctx context.Context, start, end time.Time, limit int) ([]LoginCount, error) {
	var counts []LoginCount
	if err := r.db.WithContext(ctx).Model(&model.LoginRecord{}).
		Select("user_id", "COUNT(id) AS count").
		Where("login_time BETWEEN ? AND ?", start, end).
		Group("user_id").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count weekly logins failed: %w", err)
	}
	return counts, nil
}
