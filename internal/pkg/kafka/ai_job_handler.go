package kafka

import (
	"Lokiz/internal/pkg/logger"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// JobProcessor 执行单个 AI 任务；返回错误表示需要重试
type JobProcessor func(ctx context.Context, jobID uint64) error

// AIJobHandler AI 任务消费者
type AIJobHandler struct {
	process JobProcessor
}

func NewAIJobHandler(process JobProcessor) *AIJobHandler {
	return &AIJobHandler{process: process}
}

func (s *AIJobHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("ai job consumer setup")
	return nil
}

func (s *AIJobHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("ai job consumer cleanup")
	return nil
}

func (s *AIJobHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return consumeEach(session, claim, s.handle)
}

func (s *AIJobHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	m, err := ToAIJobMessage(msg)
	if err != nil {
		// 消息本身不可解析，重试无意义
		log.Error("drop invalid ai job message", "err", err, "value", string(msg.Value))
		return nil
	}
	ctx = logger.NewTraceContext(ctx, "ai")
	log.InfoContext(ctx, "consume ai job", "job_id", m.JobID, "job_type", m.JobType)
	return s.process(ctx, m.JobID)
}
