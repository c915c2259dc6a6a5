package job

import (
	"Lokiz/internal/pkg/logger"
	"Lokiz/internal/repository"
	"context"
	log "log/slog"
	"time"
)

const staleJobMessage = "Job timed out"

// StaleJobSweepJob 进程崩溃或消息丢失会让任务停在 pending/processing，超时后统一置为失败
type StaleJobSweepJob struct {
	jobRepo repository.AIJobRepo
	maxAge  time.Duration
	now     func() time.Time
}

// NewStaleJobSweepJob maxAge 应大于单个任务的执行超时
func NewStaleJobSweepJob(jobRepo repository.AIJobRepo, maxAge time.Duration) *StaleJobSweepJob {
	return &StaleJobSweepJob{
		jobRepo: jobRepo,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

func (s *StaleJobSweepJob) Run() {
	ctx := logger.NewTraceContext(context.Background(), "job-stale")
	runLocked(ctx, "stale_job_sweep", time.Minute, s.sweep)
}

func (s *StaleJobSweepJob) sweep(ctx context.Context) {
	n, err := s.jobRepo.FailStaleJobs(ctx, s.now().Add(-s.maxAge), staleJobMessage)
	if err != nil {
		log.ErrorContext(ctx, "fail stale ai jobs error", "err", err)
		return
	}
	if n > 0 {
		log.WarnContext(ctx, "stale ai jobs failed", "count", n)
	}
}
