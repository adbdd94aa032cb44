package db

import (
	"fmt"

	"github.com/AaravSuri1/StudyBuddy/internal/config"
	"github.com/AaravSuri1/StudyBuddy/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Summary aggregates usage for a single day, for the admin surface and the
// daily report job.
type Summary struct {
	Day          string `json:"day"`
	Users        int64  `json:"users"`
	Questions    int64  `json:"questions"`
	PremiumUsers int64  `json:"premium_users"`
	TotalRecords int64  `json:"total_records"`
}

// Service defines the interface for the per-user daily usage store.
// This allows for mocking in tests and decouples handlers from the concrete implementation.
type Service interface {
	// GetOrCreateUsage returns the count and premium flag for (userID, day),
	// creating a zeroed record first if none exists. Creation is an atomic
	// insert-or-ignore, so concurrent first requests cannot produce duplicates.
	GetOrCreateUsage(userID int64, day string) (count int, premium bool, err error)
	// IncrementUsage adds one to the count for (userID, day). A missing record
	// is not an error.
	IncrementUsage(userID int64, day string) error
	// SetPremium marks (userID, day) as unlimited. A missing record is not an
	// error at this layer; callers that need the row ensure it exists first.
	SetPremium(userID int64, day string) error
	// UsageSummary aggregates the day's records.
	UsageSummary(day string) (Summary, error)
	GetDB() *gorm.DB
	Close() error
}

type service struct {
	db *gorm.DB
}

// NewService opens the configured database, runs migrations and returns a Service.
func NewService(cfg config.DatabaseConfig) (Service, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&model.UsageRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &service{db: db}, nil
}

func (s *service) GetOrCreateUsage(userID int64, day string) (int, bool, error) {
	record := model.UsageRecord{UserID: userID, Day: day}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&record).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to create usage record for user %d on %s: %w", userID, day, err)
	}

	// The insert is ignored when the row already exists, so re-read either way
	// to observe the current state.
	var current model.UsageRecord
	if err := s.db.First(&current, "user_id = ? AND day = ?", userID, day).Error; err != nil {
		return 0, false, fmt.Errorf("failed to fetch usage record for user %d on %s: %w", userID, day, err)
	}
	return current.Count, current.Premium, nil
}

func (s *service) IncrementUsage(userID int64, day string) error {
	result := s.db.Model(&model.UsageRecord{}).
		Where("user_id = ? AND day = ?", userID, day).
		UpdateColumn("count", gorm.Expr("count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment usage for user %d on %s: %w", userID, day, result.Error)
	}
	// RowsAffected of 0 means no record exists yet, which only happens when the
	// caller skipped GetOrCreateUsage. Treated as a no-op.
	return nil
}

func (s *service) SetPremium(userID int64, day string) error {
	result := s.db.Model(&model.UsageRecord{}).
		Where("user_id = ? AND day = ?", userID, day).
		Update("premium", true)
	if result.Error != nil {
		return fmt.Errorf("failed to set premium for user %d on %s: %w", userID, day, result.Error)
	}
	return nil
}

func (s *service) UsageSummary(day string) (Summary, error) {
	summary := Summary{Day: day}

	if err := s.db.Model(&model.UsageRecord{}).
		Where("day = ?", day).
		Count(&summary.Users).Error; err != nil {
		return Summary{}, fmt.Errorf("failed to count users for %s: %w", day, err)
	}

	if err := s.db.Model(&model.UsageRecord{}).
		Where("day = ?", day).
		Select("COALESCE(SUM(count), 0)").
		Scan(&summary.Questions).Error; err != nil {
		return Summary{}, fmt.Errorf("failed to sum questions for %s: %w", day, err)
	}

	if err := s.db.Model(&model.UsageRecord{}).
		Where("day = ? AND premium = ?", day, true).
		Count(&summary.PremiumUsers).Error; err != nil {
		return Summary{}, fmt.Errorf("failed to count premium users for %s: %w", day, err)
	}

	if err := s.db.Model(&model.UsageRecord{}).
		Count(&summary.TotalRecords).Error; err != nil {
		return Summary{}, fmt.Errorf("failed to count usage records: %w", err)
	}

	return summary, nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
