package printer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"customer-relay/internal/model"
)

// Sink is an extra side effect performed for every printed customer.
type Sink interface {
	Name() string
	Write(ctx context.Context, msg model.Message) error
}

// Printer is the single consumer of the channel. It keeps no state.
type Printer struct {
	l     *zap.Logger
	sinks []Sink
}

func NewPrinter(l *zap.Logger, sinks ...Sink) *Printer {
	return &Printer{
		l:     l,
		sinks: sinks,
	}
}

func (p *Printer) Handle(ctx context.Context, msg model.Message) error {
	p.l.Info(fmt.Sprintf("customer [%s]", msg.Payload),
		zap.String("message_id", msg.ID.String()),
		zap.String("source", msg.Source),
		zap.Int("customer_id", msg.Payload.ID),
		zap.String("customer_name", msg.Payload.Name),
	)

	var errs []error

	for _, sink := range p.sinks {
		if err := sink.Write(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", sink.Name(), err))
		}
	}

	return errors.Join(errs...)
}
