package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"customer-relay/internal/apperrors"
	"customer-relay/internal/model"
)

const (
	streamTypeCustomer = "customer"
	streamTypeError    = "error"

	defaultPingInterval = 30 * time.Second
	writeWait           = 5 * time.Second

	// StatusClientClosedRequest is the nginx convention for a client that went away mid-request.
	StatusClientClosedRequest = 499
)

type CustomerService interface {
	Ingest(ctx context.Context, req model.CustomerRequest) (*model.Message, error)
}

type StreamHub interface {
	Subscribe() (<-chan model.Message, func())
}

type CustomerHandler struct {
	log          *zap.Logger
	svc          CustomerService
	hub          StreamHub
	pingInterval time.Duration
}

// NewCustomerHandler accepts a nil hub, in which case the stream endpoint answers 404.
func NewCustomerHandler(log *zap.Logger, svc CustomerService, hub StreamHub, pingInterval time.Duration) *CustomerHandler {
	if pingInterval <= 0 {
		pingInterval = defaultPingInterval
	}

	return &CustomerHandler{
		log:          log,
		svc:          svc,
		hub:          hub,
		pingInterval: pingInterval,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Ingest
// @Summary Отправить клиента в канал.
// @Description Собирает Customer из id и name и кладёт его в тот же канал, что и поллер. Тело ответа пустое.
// @Tags Customers
// @Accept json
// @Param payload body model.CustomerRequest true "Customer payload"
// @Success 200 "Queued"
// @Failure 400 {object} ResponseWithMessage "Invalid JSON body"
// @Failure 503 {object} ResponseWithMessage "Channel is full or closed"
// @Failure 499 "Client closed the request"
// @Failure 504 {object} ResponseWithMessage "Timed out waiting for the channel"
// @Failure 500 {object} ResponseWithMessage "Failed to publish customer"
// @Router /customers [post]
func (h *CustomerHandler) Ingest(c *gin.Context) {
	ctx := c.Request.Context()

	var req model.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})

		return
	}

	if _, err := h.svc.Ingest(ctx, req); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidCustomer):
			c.JSON(http.StatusBadRequest, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
		case errors.Is(err, apperrors.ErrChannelFull), errors.Is(err, apperrors.ErrChannelClosed):
			c.JSON(http.StatusServiceUnavailable, ResponseWithMessage{
				Status:  StatusNotAvailable,
				Message: err.Error(),
			})
		case errors.Is(err, context.Canceled):
			h.log.Debug("Client went away before the customer was queued", zap.Error(err))
			c.Status(StatusClientClosedRequest)
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
		default:
			h.log.Error("Failed to ingest customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ResponseWithMessage{
				Status:  StatusErr,
				Message: err.Error(),
			})
		}

		return
	}

	c.Status(http.StatusOK)
}

// Stream
// @Summary Стрим напечатанных клиентов по WebSocket.
// @Description Открывает WS и присылает каждого клиента, которого обработал консьюмер.
// @Tags Customers
// @Produce application/json
// @Success 101 {object} model.StreamMessage
// @Failure 404 {object} ResponseWithMessage "Stream is disabled"
// @Router /customers/stream [get]
func (h *CustomerHandler) Stream(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusNotFound, ResponseWithMessage{
			Status:  StatusNotAvailable,
			Message: "stream is disabled",
		})

		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	messages, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	_ = conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(2 * h.pingInterval))
		return nil
	})

	// viewers never send anything, reading only drives pong and close frames
	closed := make(chan struct{})
	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case msg, ok := <-messages:
			if !ok {
				_ = conn.WriteJSON(model.StreamMessage{Type: streamTypeError, Err: "stream closed"})
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(model.StreamMessage{Type: streamTypeCustomer, Data: msg}); err != nil {
				h.log.Warn("ws write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
