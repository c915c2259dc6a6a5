package kafka

import (
	"Lokiz/internal/api/config"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// AIJobProducer 把任务 id 投递到 Kafka，由消费组执行
type AIJobProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewAIJobProducer(cfg config.KafkaConfig) (*AIJobProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return &AIJobProducer{producer: producer, topic: cfg.AIJob.Topic}, nil
}

// NewAIJobProducerWith 使用已有的 SyncProducer
func NewAIJobProducerWith(producer sarama.SyncProducer, topic string) *AIJobProducer {
	return &AIJobProducer{producer: producer, topic: topic}
}

func (p *AIJobProducer) Dispatch(ctx context.Context, jobID, userID uint64, jobType string) error {
	body, err := json.Marshal(AIJobMessage{JobID: jobID, UserID: userID, JobType: jobType})
	if err != nil {
		return err
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(userID, 10)),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return errors.Wrapf(err, "publish ai job %d", jobID)
	}
	log.DebugContext(ctx, "ai job published", "job_id", jobID, "partition", partition, "offset", offset)
	return nil
}

func (p *AIJobProducer) Close() error {
	return p.producer.Close()
}
