package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourcePoller = "poller"
	SourceHTTP   = "http"
)

// Message is the envelope a Customer travels in between a producer and the printer.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Customer  `json:"payload"`
}

func NewMessage(source string, customer Customer) Message {
	return Message{
		ID:        uuid.New(),
		Source:    source,
		Timestamp: time.Now().UTC(),
		Payload:   customer,
	}
}

// StreamMessage
// @Description Сообщение, которое получают websocket-клиенты /customers/stream.
type StreamMessage struct {
	Type string `json:"type"`            // "customer" | "error"
	Data any    `json:"data,omitempty"`  // payload
	Err  string `json:"error,omitempty"` // текст ошибки
} // @Name StreamMessage

// Health
// @Description Состояние сервиса.
type Health struct {
	Database     string `json:"database"     example:"ok"` // Состояние базы
	ChannelDepth int    `json:"channelDepth" example:"0"`  // Сообщений в очереди канала
} // @Name Health
