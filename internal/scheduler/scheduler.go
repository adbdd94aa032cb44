// Package scheduler runs the daily usage report job. Usage records are
// day-keyed and never reset or deleted, so the job only reads.
package scheduler

import (
	"log/slog"
	"time"

	"github.com/AaravSuri1/StudyBuddy/internal/db"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	db     db.Service
	c      *cron.Cron
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduler(db db.Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		c:      cron.New(),
		logger: logger.With("component", "scheduler"),
		now:    time.Now,
	}
}

// Start schedules the daily report just after midnight.
func (s *Scheduler) Start() error {
	if _, err := s.c.AddFunc("@daily", s.reportDailyUsage); err != nil {
		return err
	}
	s.c.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.c.Stop()
}

// reportDailyUsage logs the summary for the day that just ended.
func (s *Scheduler) reportDailyUsage() {
	day := s.now().AddDate(0, 0, -1).Format("2006-01-02")
	summary, err := s.db.UsageSummary(day)
	if err != nil {
		s.logger.Error("Failed to load daily usage summary", "day", day, "error", err)
		return
	}
	s.logger.Info("Daily usage summary",
		"day", summary.Day,
		"users", summary.Users,
		"questions", summary.Questions,
		"premium_users", summary.PremiumUsers,
		"total_records", summary.TotalRecords,
	)
}
