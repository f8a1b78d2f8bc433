package channel

import (
	"context"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"customer-relay/internal/apperrors"
	"customer-relay/internal/model"
)

const DefaultCapacity = 1024

type Overflow string

const (
	// OverflowBlock makes Send wait for free space or for its context.
	OverflowBlock Overflow = "block"
	// OverflowReject makes Send fail fast with apperrors.ErrChannelFull.
	OverflowReject Overflow = "reject"
)

type Handler interface {
	Handle(ctx context.Context, msg model.Message) error
}

type HandlerFunc func(ctx context.Context, msg model.Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg model.Message) error {
	return f(ctx, msg)
}

type Config struct {
	Name     string
	Capacity int
	Overflow Overflow
}

// Channel is a bounded point-to-point queue with a single dispatcher.
// Any number of producers may Send concurrently; the handler is never
// invoked for more than one message at a time.
type Channel struct {
	l       *zap.Logger
	cfg     Config
	handler Handler

	messagePipe chan model.Message
	quit        chan struct{}
	done        chan struct{}

	mu        sync.RWMutex
	closeOnce sync.Once
	runOnce   sync.Once
}

func New(l *zap.Logger, cfg Config, handler Handler) *Channel {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}

	if cfg.Overflow == "" {
		cfg.Overflow = OverflowBlock
	}

	return &Channel{
		l:           l.With(zap.String("channel", cfg.Name)),
		cfg:         cfg,
		handler:     handler,
		messagePipe: make(chan model.Message, cfg.Capacity),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (c *Channel) Send(ctx context.Context, msg model.Message) error {
	// held for the whole send so the dispatcher can wait out in-flight producers before draining
	c.mu.RLock()
	defer c.mu.RUnlock()

	select {
	case <-c.quit:
		return apperrors.ErrChannelClosed
	default:
	}

	if c.cfg.Overflow == OverflowReject {
		select {
		case c.messagePipe <- msg:
			return nil
		default:
			return apperrors.ErrChannelFull
		}
	}

	select {
	case c.messagePipe <- msg:
		return nil
	case <-c.quit:
		return apperrors.ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run dispatches messages until ctx is cancelled or Close is called. Either
// way the channel stops accepting messages and whatever is still queued is
// handed to the handler before Run returns. Only the first call does anything.
func (c *Channel) Run(ctx context.Context) {
	c.runOnce.Do(func() {
		defer close(c.done)

		c.l.Info("Channel dispatcher started", zap.Int("capacity", c.cfg.Capacity), zap.String("overflow", string(c.cfg.Overflow)))

		for {
			select {
			case <-ctx.Done():
				c.Close()
				c.drain(context.WithoutCancel(ctx))
				c.l.Info("Channel dispatcher stopped")

				return
			case <-c.quit:
				c.drain(ctx)
				c.l.Info("Channel dispatcher stopped")

				return
			case msg := <-c.messagePipe:
				c.dispatch(ctx, msg)
			}
		}
	})
}

// Close stops accepting messages. It is safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
}

// Done is closed once Run has returned.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

func (c *Channel) Len() int {
	return len(c.messagePipe)
}

func (c *Channel) Cap() int {
	return cap(c.messagePipe)
}

func (c *Channel) drain(ctx context.Context) {
	// quit is closed, so once in-flight Sends release the lock nothing else can be queued
	c.mu.Lock()
	c.mu.Unlock()

	for {
		select {
		case msg := <-c.messagePipe:
			c.dispatch(ctx, msg)
		default:
			return
		}
	}
}

func (c *Channel) dispatch(ctx context.Context, msg model.Message) {
	defer func() {
		if r := recover(); r != nil {
			c.l.Error("Handler panicked",
				zap.String("message_id", msg.ID.String()),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	if err := c.handler.Handle(ctx, msg); err != nil {
		c.l.Error("Failed to handle message",
			zap.String("message_id", msg.ID.String()),
			zap.String("source", msg.Source),
			zap.Error(err),
		)
	}
}
