package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"customer-relay/internal/apperrors"
	"customer-relay/internal/model"
)

type Publisher interface {
	Send(ctx context.Context, msg model.Message) error
}

type CustomerService struct {
	log       *zap.Logger
	publisher Publisher
}

func NewCustomerService(log *zap.Logger, publisher Publisher) *CustomerService {
	return &CustomerService{
		log:       log,
		publisher: publisher,
	}
}

// Ingest builds a customer from exactly the two request fields and hands it
// to the channel. It returns once the message is queued, not once it is printed.
func (s *CustomerService) Ingest(ctx context.Context, req model.CustomerRequest) (*model.Message, error) {
	if req.ID == nil || req.Name == nil {
		return nil, apperrors.ErrInvalidCustomer
	}

	msg := model.NewMessage(model.SourceHTTP, req.Customer())

	if err := s.publisher.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to publish customer: %w", err)
	}

	s.log.Debug("Customer queued",
		zap.String("message_id", msg.ID.String()),
		zap.Int("customer_id", msg.Payload.ID),
	)

	return &msg, nil
}
