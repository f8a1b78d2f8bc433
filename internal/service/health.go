package service

import (
	"context"

	"go.uber.org/zap"

	"customer-relay/internal/model"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

type HealthRepository interface {
	Ping(ctx context.Context) error
}

type ChannelStats interface {
	Len() int
}

type HealthService struct {
	log        *zap.Logger
	healthRepo HealthRepository
	channel    ChannelStats
}

func NewHealthService(log *zap.Logger, healthRepo HealthRepository, channel ChannelStats) *HealthService {
	return &HealthService{
		log:        log,
		healthRepo: healthRepo,
		channel:    channel,
	}
}

// Health always returns the report. The error is set when the database is unreachable.
func (s *HealthService) Health(ctx context.Context) (*model.Health, error) {
	health := &model.Health{
		Database:     statusOK,
		ChannelDepth: s.channel.Len(),
	}

	if err := s.healthRepo.Ping(ctx); err != nil {
		s.log.Warn("Database ping failed", zap.Error(err))
		health.Database = statusUnavailable

		return health, err
	}

	return health, nil
}
