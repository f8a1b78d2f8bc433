package apperrors

import (
	"errors"
)

var (
	ErrShutdown = errors.New("shutdown error")

	ErrChannelFull   = errors.New("channel is full")
	ErrChannelClosed = errors.New("channel is closed")

	ErrInvalidCustomer = errors.New("invalid customer")

	ErrDatabaseUnavailable = errors.New("database is unavailable")
)
