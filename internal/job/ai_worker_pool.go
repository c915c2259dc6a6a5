package job

import (
	"Lokiz/internal/pkg/consts"
	"Lokiz/internal/pkg/logger"
	"Lokiz/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Processor 执行单个 AI 任务；返回错误表示需要重新投递
type Processor func(ctx context.Context, jobID uint64) error

var ErrQueueFull = errors.New("ai job queue is full")

// Exclusive 同一任务同时只允许一个执行者，重复投递的消息直接跳过
func Exclusive(process Processor, ttl time.Duration) Processor {
	return func(ctx context.Context, jobID uint64) error {
		key := consts.AIJobRunLock + strconv.FormatUint(jobID, 10)
		token := uuid.NewString()
		ok, err := redis.TryLock(ctx, key, token, ttl, 1)
		if err != nil {
			return errors.Wrapf(err, "lock ai job %d", jobID)
		}
		if !ok {
			log.InfoContext(ctx, "ai job already running, skip", "job_id", jobID)
			return nil
		}
		defer redis.UnLock(context.WithoutCancel(ctx), key, token)
		return process(ctx, jobID)
	}
}

type aiTask struct {
	jobID   uint64
	jobType string
	attempt int
}

// AIWorkerPool 进程内的任务队列，未启用 Kafka 时作为投递通道
type AIWorkerPool struct {
	process    Processor
	queue      chan aiTask
	workers    int
	maxAttempt int
	wg         sync.WaitGroup
}

func NewAIWorkerPool(process Processor, workers, queueSize int) *AIWorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}
	return &AIWorkerPool{
		process:    process,
		queue:      make(chan aiTask, queueSize),
		workers:    workers,
		maxAttempt: 3,
	}
}

// Dispatch 非阻塞入队，队列满时返回 ErrQueueFull
func (p *AIWorkerPool) Dispatch(ctx context.Context, jobID, _ uint64, jobType string) error {
	select {
	case p.queue <- aiTask{jobID: jobID, jobType: jobType}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.Wrapf(ErrQueueFull, "dispatch job %d", jobID)
	}
}

// Start 启动 worker，阻塞至 ctx 结束且在途任务处理完毕
func (p *AIWorkerPool) Start(ctx context.Context) error {
	log.Info("AI worker pool started", "workers", p.workers, "queue", cap(p.queue))
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}
	<-ctx.Done()
	p.wg.Wait()
	log.Info("AI worker pool stopped")
	return nil
}

func (p *AIWorkerPool) work(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.queue:
			p.run(ctx, task)
		}
	}
}

func (p *AIWorkerPool) run(ctx context.Context, task aiTask) {
	// 任务执行不随服务关闭中断，由超时控制
	taskCtx := logger.NewTraceContext(context.WithoutCancel(ctx), "ai")
	log.InfoContext(taskCtx, "run ai job", "job_id", task.jobID, "job_type", task.jobType, "attempt", task.attempt+1)

	err := p.process(taskCtx, task.jobID)
	if err == nil {
		return
	}
	task.attempt++
	if task.attempt >= p.maxAttempt {
		log.ErrorContext(taskCtx, "ai job gave up", "job_id", task.jobID, "err", err)
		return
	}
	log.WarnContext(taskCtx, "ai job failed, requeue", "job_id", task.jobID, "err", err)
	select {
	case p.queue <- task:
	default:
		log.ErrorContext(taskCtx, "requeue ai job failed, queue full", "job_id", task.jobID)
	}
}
