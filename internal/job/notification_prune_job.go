package job

import (
	"Lokiz/internal/pkg/logger"
	"Lokiz/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// NotificationPruneJob 清理过期的已读通知
type NotificationPruneJob struct {
	notificationRepo repository.NotificationRepo
	keep             time.Duration
	now              func() time.Time
}

func NewNotificationPruneJob(notificationRepo repository.NotificationRepo, keepDays int) *NotificationPruneJob {
	return &NotificationPruneJob{
		notificationRepo: notificationRepo,
		keep:             time.Duration(keepDays) * 24 * time.Hour,
		now:              time.Now,
	}
}

func (s *NotificationPruneJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-notification")
	runLocked(ctx, "notification_prune", 30*time.Minute, s.prune)
}

func (s *NotificationPruneJob) prune(ctx context.Context) {
	n, err := s.notificationRepo.DeleteReadBefore(ctx, s.now().Add(-s.keep))
	if err != nil {
		log.ErrorContext(ctx, "prune notifications error", "err", err)
		return
	}
	log.InfoContext(ctx, "NotificationPruneJob finished", "deleted", n)
}
