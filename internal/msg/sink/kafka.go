package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"customer-relay/internal/model"
	"customer-relay/pkg/kafka"
)

// KafkaSink forwards every printed customer to a topic, keyed by message id.
type KafkaSink struct {
	producer kafka.Producer
	topic    string
}

func NewKafkaSink(producer kafka.Producer, topic string) *KafkaSink {
	return &KafkaSink{
		producer: producer,
		topic:    topic,
	}
}

func (s *KafkaSink) Name() string {
	return "kafka"
}

func (s *KafkaSink) Write(ctx context.Context, msg model.Message) error {
	key, err := msg.ID.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal message id: %w", err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if _, _, err := s.producer.PushMessage(ctx, key, payload, s.topic); err != nil {
		return fmt.Errorf("failed to push message: %w", err)
	}

	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}
