package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
)

var ErrNoBrokers = errors.New("no kafka brokers provided")

type Balancer int

const (
	Hash Balancer = iota
	RoundRobin
	Random
)

type RequiredAcks int

const (
	RequireNone RequiredAcks = iota
	RequireOne
	RequireAll
)

type Producer interface {
	PushMessage(ctx context.Context, key, value []byte, topic string) (partition int32, offset int64, err error)
	Close() error
}

type ProducerOption func(cfg *sarama.Config)

func WithBalancer(b Balancer) ProducerOption {
	return func(cfg *sarama.Config) {
		switch b {
		case RoundRobin:
			cfg.Producer.Partitioner = sarama.NewRoundRobinPartitioner
		case Random:
			cfg.Producer.Partitioner = sarama.NewRandomPartitioner
		default:
			cfg.Producer.Partitioner = sarama.NewHashPartitioner
		}
	}
}

func WithRequiredAcks(acks RequiredAcks) ProducerOption {
	return func(cfg *sarama.Config) {
		switch acks {
		case RequireNone:
			cfg.Producer.RequiredAcks = sarama.NoResponse
		case RequireOne:
			cfg.Producer.RequiredAcks = sarama.WaitForLocal
		default:
			cfg.Producer.RequiredAcks = sarama.WaitForAll
		}
	}
}

func WithClientID(id string) ProducerOption {
	return func(cfg *sarama.Config) {
		if id != "" {
			cfg.ClientID = id
		}
	}
}

type producer struct {
	sp sarama.SyncProducer
}

func NewProducer(brokers []string, opts ...ProducerOption) (Producer, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	for _, opt := range opts {
		opt(cfg)
	}

	sp, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync producer: %w", err)
	}

	return &producer{sp: sp}, nil
}

// NewProducerFromSync wraps an existing sarama producer, mocks included.
func NewProducerFromSync(sp sarama.SyncProducer) Producer {
	return &producer{sp: sp}
}

// PushMessage is synchronous. sarama has no context support, so ctx is only checked up front.
func (p *producer) PushMessage(ctx context.Context, key, value []byte, topic string) (int32, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.sp.SendMessage(msg)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to send message: %w", err)
	}

	return partition, offset, nil
}

func (p *producer) Close() error {
	return p.sp.Close()
}
