package poller

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"customer-relay/internal/model"
	"customer-relay/internal/repository"
)

const DefaultInterval = time.Second

type Repository interface {
	SelectAll(ctx context.Context, ext repository.RepoExtension) ([]model.Customer, error)
}

type Publisher interface {
	Send(ctx context.Context, msg model.Message) error
}

type Config struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
}

// Poller re-reads the whole customer table on every tick and publishes
// each row as its own message.
type Poller struct {
	l            *zap.Logger
	cfg          Config
	customerRepo Repository
	out          Publisher
}

func NewPoller(l *zap.Logger, cfg Config, customerRepo Repository, out Publisher) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &Poller{
		l:            l.With(zap.String("poller", cfg.Name)),
		cfg:          cfg,
		customerRepo: customerRepo,
		out:          out,
	}
}

func (p *Poller) Run(ctx context.Context) {
	p.l.Info("Poller started", zap.Duration("interval", p.cfg.Interval))

	p.tick(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Poller stopped")

			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// Poll performs a single read-and-publish cycle and returns how many
// messages were published.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	customers, err := p.customerRepo.SelectAll(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to select customers: %w", err)
	}

	published := 0

	for _, customer := range customers {
		msg := model.NewMessage(model.SourcePoller, customer)

		if err := p.out.Send(ctx, msg); err != nil {
			p.l.Error("Failed to publish customer",
				zap.Int("customer_id", customer.ID),
				zap.String("message_id", msg.ID.String()),
				zap.Error(err),
			)

			continue
		}

		published++
	}

	return published, nil
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	published, err := p.Poll(ctx)
	if err != nil {
		p.l.Error("Poll failed, retrying on next tick", zap.Error(err))

		return
	}

	p.l.Debug("Poll finished", zap.Int("published", published))
}
