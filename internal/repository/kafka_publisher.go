package repository

import (
	"context"
	"fmt"

	"github.com/ybird-labs/senate-insight-lab/internal/domain/models"
	domrepo "github.com/ybird-labs/senate-insight-lab/internal/domain/repository"
	pkgkafka "github.com/ybird-labs/senate-insight-lab/pkg/kafka"
	applogger "github.com/ybird-labs/senate-insight-lab/pkg/logger"
)

// KafkaAlertPublisher implements AlertPublisher over a Kafka topic.
// Messages are keyed by member id so one member's alerts stay ordered
// within a partition.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

// NewKafkaAlertPublisher creates the Kafka-backed alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic, l: l}
}

var _ domrepo.AlertPublisher = (*KafkaAlertPublisher)(nil)

// PublishAlerts pushes alerts to the configured topic.
func (p *KafkaAlertPublisher) PublishAlerts(ctx context.Context, alerts []models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	msgs := make([]pkgkafka.Message, 0, len(alerts))
	for _, a := range alerts {
		msgs = append(msgs, pkgkafka.Message{
			Key:   []byte(a.MemberID),
			Value: a,
		})
	}

	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		return fmt.Errorf("publish alerts: %w", err)
	}

	p.l.Info("alerts published",
		applogger.String("topic", p.topic),
		applogger.Int("count", len(alerts)))
	return nil
}

// Close closes the underlying producer.
func (p *KafkaAlertPublisher) Close() error {
	return p.producer.Close()
}
