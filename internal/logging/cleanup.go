package logging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/petverse-backend/internal/models"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Pruner deletes rows created before cutoff and reports how many went.
type Pruner func(ctx context.Context, cutoff time.Time) (int64, error)

// RetentionJob keeps one table trimmed to a fixed window.
type RetentionJob struct {
	Name  string
	Keep  time.Duration
	Prune Pruner
}

// Days converts a retention setting in days to a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// PruneSystemLogs is the Pruner for system_logs.
func PruneSystemLogs(db *gorm.DB) Pruner {
	return func(ctx context.Context, cutoff time.Time) (int64, error) {
		result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
		return result.RowsAffected, result.Error
	}
}

func runRetention(ctx context.Context, job RetentionJob, now time.Time) {
	deleted, err := job.Prune(ctx, now.Add(-job.Keep))
	if err != nil {
		slog.Error("retention cleanup failed", "action", job.Name, "error", err.Error())
		return
	}
	if deleted > 0 {
		slog.Info("retention cleanup completed", "action", job.Name, "deleted", deleted)
	}
}

// StartCleanup schedules every job daily, starting right away. Jobs with a
// non-positive window are skipped. Call Shutdown on the result to stop.
func StartCleanup(jobs ...RetentionJob) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	for _, job := range jobs {
		if job.Keep <= 0 {
			slog.Info("retention disabled", "action", job.Name)
			continue
		}
		_, err := sched.NewJob(
			gocron.DurationJob(24*time.Hour),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				defer cancel()
				runRetention(ctx, job, time.Now())
			}),
			gocron.WithName(job.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			_ = sched.Shutdown()
			return nil, fmt.Errorf("failed to schedule %s: %w", job.Name, err)
		}
	}

	sched.Start()
	return sched, nil
}
