package sender

import "errors"

var (
	ErrUnknownType      = errors.New("unknown sender type")
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrNotConnected     = errors.New("websocket not connected")
	ErrSenderClosed     = errors.New("sender closed")
)
