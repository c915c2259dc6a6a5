package kafka

import (
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const maxAttempts = 3

var retryBackoff = 2 * time.Second

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// AIJobMessage 任务派发消息体
type AIJobMessage struct {
	JobID   uint64 `json:"job_id"`
	UserID  uint64 `json:"user_id"`
	JobType string `json:"job_type"`
}

// consumeEach 逐条处理，单个任务耗时较长，不做批量
func consumeEach(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if !withRetry(session.Context(), msg, logic) {
				// 会话结束，未标记的位点由下一个消费者接手
				return nil
			}
			session.MarkMessage(msg, "")
			session.Commit()
		case <-session.Context().Done():
			return nil
		}
	}
}

// withRetry 最多执行 maxAttempts 次，仍失败则放弃该消息；返回 false 表示会话已结束
func withRetry(ctx context.Context, msg *sarama.ConsumerMessage, logic LogicFunc) bool {
	backoff := retryBackoff
	for attempt := 1; ; attempt++ {
		err := logic(ctx, msg)
		if err == nil {
			return true
		}
		if attempt >= maxAttempts {
			log.Error("give up message", "err", err, "partition", msg.Partition, "offset", msg.Offset)
			return true
		}
		log.Warn("retry message", "err", err, "attempt", attempt, "offset", msg.Offset)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		backoff *= 2
	}
}

// ToAIJobMessage 解析任务消息
func ToAIJobMessage(msg *sarama.ConsumerMessage) (*AIJobMessage, error) {
	var m AIJobMessage
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		return nil, errors.Wrap(err, "unmarshal ai job message")
	}
	if m.JobID == 0 {
		return nil, errors.New("job id is empty")
	}
	return &m, nil
}
