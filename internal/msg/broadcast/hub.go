package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"customer-relay/internal/model"
)

const DefaultViewerBuffer = 64

// Hub hands every printed customer to the connected stream viewers.
// Write never blocks: a viewer whose buffer is full misses the message.
type Hub struct {
	l            *zap.Logger
	viewerBuffer int

	mu      sync.RWMutex
	viewers map[uuid.UUID]chan model.Message
	closed  bool
}

func NewHub(l *zap.Logger, viewerBuffer int) *Hub {
	if viewerBuffer <= 0 {
		viewerBuffer = DefaultViewerBuffer
	}

	return &Hub{
		l:            l,
		viewerBuffer: viewerBuffer,
		viewers:      make(map[uuid.UUID]chan model.Message),
	}
}

func (h *Hub) Name() string {
	return "broadcast"
}

func (h *Hub) Write(_ context.Context, msg model.Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, viewer := range h.viewers {
		select {
		case viewer <- msg:
		default:
			h.l.Warn("Stream viewer is too slow, message dropped",
				zap.String("viewer_id", id.String()),
				zap.String("message_id", msg.ID.String()),
			)
		}
	}

	return nil
}

// Subscribe registers a viewer. The returned channel is closed by the
// unsubscribe func or by Close.
func (h *Hub) Subscribe() (<-chan model.Message, func()) {
	id := uuid.New()
	viewer := make(chan model.Message, h.viewerBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(viewer)

		return viewer, func() {}
	}

	h.viewers[id] = viewer
	h.mu.Unlock()

	h.l.Debug("Stream viewer subscribed", zap.String("viewer_id", id.String()))

	var once sync.Once

	return viewer, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if v, ok := h.viewers[id]; ok {
				delete(h.viewers, id)
				close(v)
			}

			h.l.Debug("Stream viewer unsubscribed", zap.String("viewer_id", id.String()))
		})
	}
}

func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.viewers)
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true

	for id, viewer := range h.viewers {
		delete(h.viewers, id)
		close(viewer)
	}

	return nil
}
