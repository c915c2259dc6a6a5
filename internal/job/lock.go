package job

import (
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// runLocked 多实例部署时同一定时任务只在一个实例上执行
func runLocked(ctx context.Context, name string, ttl time.Duration, fn func(ctx context.Context)) {
	key := consts.CronJobLock + name
	token := uuid.NewString()
	ok, err := redis.TryLock(ctx, key, token, ttl, 1)
	if err != nil {
		log.ErrorContext(ctx, "acquire cron lock error", "job", name, "err", err)
		return
	}
	if !ok {
		log.InfoContext(ctx, "cron job running elsewhere, skip", "job", name)
		return
	}
	defer redis.UnLock(ctx, key, token)
	fn(ctx)
}
