package kafka

import (
	"Lokiz/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	aiJobConsumer sarama.ConsumerGroup
	aiJobHandler  sarama.ConsumerGroupHandler
	aiJobTopic    string
}

func NewConsumerManager(cfg *config.Config, process JobProcessor) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	aiJobConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.AIJob.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		aiJobConsumer: aiJobConsumer,
		aiJobHandler:  NewAIJobHandler(process),
		aiJobTopic:    cfg.Kafka.AIJob.Topic,
	}, nil
}

// Start 启动消费者，阻塞至 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		log.Info("AI job consumer started", "topic", m.aiJobTopic)
		for {
			if err := m.aiJobConsumer.Consume(ctx, []string{m.aiJobTopic}, m.aiJobHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.aiJobConsumer.Close(); err != nil {
		log.Error("Failed to close ai job consumer", "err", err)
	}
	return nil
}
