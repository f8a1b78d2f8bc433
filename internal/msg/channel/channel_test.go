package channel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"customer-relay/internal/apperrors"
	"customer-relay/internal/model"
)

// recorder is a Handler that keeps every message it sees.
type recorder struct {
	mu       sync.Mutex
	messages []model.Message
}

func (r *recorder) Handle(_ context.Context, msg model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)

	return nil
}

func (r *recorder) snapshot() []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]model.Message(nil), r.messages...)
}

func runChannel(t *testing.T, ch *Channel) {
	t.Helper()

	go ch.Run(context.Background())

	t.Cleanup(func() {
		ch.Close()
		waitDone(t, ch)
	})
}

func waitDone(t *testing.T, ch *Channel) {
	t.Helper()

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for dispatcher to stop")
	}
}

// TestChannel_FIFOWithinProducer verifies that one producer's messages are
// handled in the order they were sent.
func TestChannel_FIFOWithinProducer(t *testing.T) {
	rec := &recorder{}
	ch := New(zap.NewNop(), Config{Name: "test", Capacity: 16}, rec)

	go ch.Run(context.Background())

	for i := 0; i < 100; i++ {
		if err := ch.Send(context.Background(), model.NewMessage(model.SourcePoller, model.NewCustomer(i, "c"))); err != nil {
			t.Fatalf("Send(%d) error = %v", i, err)
		}
	}

	ch.Close()
	waitDone(t, ch)

	got := rec.snapshot()
	if len(got) != 100 {
		t.Fatalf("handled %d messages, want 100", len(got))
	}

	for i, msg := range got {
		if msg.Payload.ID != i {
			t.Fatalf("message %d has customer id %d, want %d", i, msg.Payload.ID, i)
		}
	}
}

// TestChannel_SerializedDispatch verifies that concurrent producers never
// cause more than one handler invocation at a time.
func TestChannel_SerializedDispatch(t *testing.T) {
	var inFlight, maxInFlight, handled atomic.Int32

	handler := HandlerFunc(func(_ context.Context, _ model.Message) error {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}

		time.Sleep(100 * time.Microsecond)
		inFlight.Add(-1)
		handled.Add(1)

		return nil
	})

	ch := New(zap.NewNop(), Config{Name: "test", Capacity: 8}, handler)
	go ch.Run(context.Background())

	const producers, perProducer = 8, 25

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := ch.Send(context.Background(), model.NewMessage(model.SourceHTTP, model.NewCustomer(p, "c"))); err != nil {
					t.Errorf("Send() error = %v", err)
				}
			}
		}(p)
	}

	wg.Wait()
	ch.Close()
	waitDone(t, ch)

	if got := maxInFlight.Load(); got != 1 {
		t.Errorf("max in-flight handlers = %d, want 1", got)
	}

	if got := handled.Load(); got != producers*perProducer {
		t.Errorf("handled = %d, want %d", got, producers*perProducer)
	}
}

// TestChannel_RejectWhenFull verifies the reject overflow policy.
func TestChannel_RejectWhenFull(t *testing.T) {
	ch := New(zap.NewNop(), Config{Name: "test", Capacity: 1, Overflow: OverflowReject}, &recorder{})

	msg := model.NewMessage(model.SourceHTTP, model.NewCustomer(1, "Ada"))

	if err := ch.Send(context.Background(), msg); err != nil {
		t.Fatalf("first Send() error = %v", err)
	}

	if err := ch.Send(context.Background(), msg); !errors.Is(err, apperrors.ErrChannelFull) {
		t.Fatalf("second Send() error = %v, want %v", err, apperrors.ErrChannelFull)
	}

	if got := ch.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

// TestChannel_BlockHonoursContext verifies that a blocked producer gives up
// when its context expires.
func TestChannel_BlockHonoursContext(t *testing.T) {
	ch := New(zap.NewNop(), Config{Name: "test", Capacity: 1, Overflow: OverflowBlock}, &recorder{})

	msg := model.NewMessage(model.SourceHTTP, model.NewCustomer(1, "Ada"))

	if err := ch.Send(context.Background(), msg); err != nil {
		t.Fatalf("first Send() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := ch.Send(ctx, msg); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("blocked Send() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

// TestChannel_SendAfterClose verifies that a closed channel refuses messages.
func TestChannel_SendAfterClose(t *testing.T) {
	ch := New(zap.NewNop(), Config{Name: "test"}, &recorder{})
	ch.Close()
	ch.Close() // idempotent

	err := ch.Send(context.Background(), model.NewMessage(model.SourceHTTP, model.NewCustomer(1, "Ada")))
	if !errors.Is(err, apperrors.ErrChannelClosed) {
		t.Fatalf("Send() error = %v, want %v", err, apperrors.ErrChannelClosed)
	}
}

// TestChannel_CloseDrainsQueue verifies that messages queued before Close are
// still handled.
func TestChannel_CloseDrainsQueue(t *testing.T) {
	rec := &recorder{}
	ch := New(zap.NewNop(), Config{Name: "test", Capacity: 4}, rec)

	for i := 0; i < 3; i++ {
		if err := ch.Send(context.Background(), model.NewMessage(model.SourcePoller, model.NewCustomer(i, "c"))); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	ch.Close()
	go ch.Run(context.Background())
	waitDone(t, ch)

	if got := len(rec.snapshot()); got != 3 {
		t.Errorf("handled %d messages, want 3", got)
	}
}

// TestChannel_HandlerPanicIsContained verifies that a panicking handler does
// not stop the dispatcher.
func TestChannel_HandlerPanicIsContained(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	rec := &recorder{}

	handler := HandlerFunc(func(ctx context.Context, msg model.Message) error {
		if msg.Payload.ID == 1 {
			panic("boom")
		}

		return rec.Handle(ctx, msg)
	})

	ch := New(zap.New(core), Config{Name: "test"}, handler)
	runChannel(t, ch)

	_ = ch.Send(context.Background(), model.NewMessage(model.SourceHTTP, model.NewCustomer(1, "Ada")))
	_ = ch.Send(context.Background(), model.NewMessage(model.SourceHTTP, model.NewCustomer(2, "Lin")))

	deadline := time.After(2 * time.Second)
	for len(rec.snapshot()) == 0 {
		select {
		case <-deadline:
			t.Fatal("second message was never handled")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if got := rec.snapshot()[0].Payload.ID; got != 2 {
		t.Errorf("handled customer id = %d, want 2", got)
	}

	if logs.FilterMessage("Handler panicked").Len() != 1 {
		t.Error("expected the panic to be logged once")
	}
}

// TestChannel_HandlerErrorIsLogged verifies that handler errors stay inside
// the channel.
func TestChannel_HandlerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	handler := HandlerFunc(func(_ context.Context, _ model.Message) error {
		return errors.New("sink down")
	})

	ch := New(zap.New(core), Config{Name: "test"}, handler)
	go ch.Run(context.Background())

	if err := ch.Send(context.Background(), model.NewMessage(model.SourceHTTP, model.NewCustomer(1, "Ada"))); err != nil {
		t.Fatalf("Send() error = %v, handler errors must not reach producers", err)
	}

	ch.Close()
	waitDone(t, ch)

	if logs.FilterMessage("Failed to handle message").Len() != 1 {
		t.Error("expected the handler error to be logged once")
	}
}

// TestChannel_Defaults verifies the zero config falls back to a bounded, blocking queue.
func TestChannel_Defaults(t *testing.T) {
	ch := New(zap.NewNop(), Config{}, &recorder{})

	if got := ch.Cap(); got != DefaultCapacity {
		t.Errorf("Cap() = %d, want %d", got, DefaultCapacity)
	}

	if ch.cfg.Overflow != OverflowBlock {
		t.Errorf("overflow = %q, want %q", ch.cfg.Overflow, OverflowBlock)
	}
}

// TestChannel_CancelStopsAcceptingAndDrains verifies that cancelling Run's
// context behaves like Close.
func TestChannel_CancelStopsAcceptingAndDrains(t *testing.T) {
	block := make(chan struct{})
	rec := &recorder{}

	handler := HandlerFunc(func(ctx context.Context, msg model.Message) error {
		<-block
		return rec.Handle(ctx, msg)
	})

	ch := New(zap.NewNop(), Config{Name: "test", Capacity: 4}, handler)

	ctx, cancel := context.WithCancel(context.Background())
	go ch.Run(ctx)

	for i := 0; i < 3; i++ {
		if err := ch.Send(context.Background(), model.NewMessage(model.SourcePoller, model.NewCustomer(i, "c"))); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	cancel()
	close(block)
	waitDone(t, ch)

	if got := len(rec.snapshot()); got != 3 {
		t.Errorf("handled %d messages, want 3", got)
	}

	err := ch.Send(context.Background(), model.NewMessage(model.SourcePoller, model.NewCustomer(9, "c")))
	if !errors.Is(err, apperrors.ErrChannelClosed) {
		t.Fatalf("Send() after cancel error = %v, want %v", err, apperrors.ErrChannelClosed)
	}
}
