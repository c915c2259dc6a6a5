package job

import (
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/logger"
	"Lokiz/internal/pkg/redis"
	"Lokiz/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// CounterReconcileJob 用关系表重算冗余计数，修正并发或异常导致的漂移
type CounterReconcileJob struct {
	counterRepo repository.CounterRepo
}

func NewCounterReconcileJob(counterRepo repository.CounterRepo) *CounterReconcileJob {
	return &CounterReconcileJob{
		counterRepo: counterRepo,
	}
}

func (s *CounterReconcileJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-counter")
	runLocked(ctx, "counter_reconcile", 10*time.Minute, s.reconcile)
}

func (s *CounterReconcileJob) reconcile(ctx context.Context) {
	start := time.Now()

	videos, err := s.counterRepo.ReconcileVideoCounters(ctx)
	if err != nil {
		log.ErrorContext(ctx, "reconcile video counters error", "err", err)
		return
	}
	comments, err := s.counterRepo.ReconcileCommentLikes(ctx)
	if err != nil {
		log.ErrorContext(ctx, "reconcile comment likes error", "err", err)
		return
	}
	hashtags, err := s.counterRepo.ReconcileHashtagUseCounts(ctx)
	if err != nil {
		log.ErrorContext(ctx, "reconcile hashtag use counts error", "err", err)
		return
	}

	if err = redis.SetWithExpiration(ctx, consts.CounterReconcileDoneKey, time.Now().Unix(), 0); err != nil {
		log.WarnContext(ctx, "record reconcile time error", "err", err)
	}
	log.InfoContext(ctx, "CounterReconcileJob finished",
		"videos", videos, "comments", comments, "hashtags", hashtags, "cost", time.Since(start))
}
