package lane

import "errors"

var (
	ErrBufferOverflow   = errors.New("lane buffer overflow")
	ErrWorkerStopped    = errors.New("lane worker stopped")
	ErrLaneFailed       = errors.New("lane stopped after handler failure")
	ErrExecutorClosed   = errors.New("executor closed")
	ErrExecutorBusy     = errors.New("executor queue is full")
	ErrFactoryClosed    = errors.New("worker factory closed")
	ErrHandlerPanic     = errors.New("handler panicked")
	ErrNilHandler       = errors.New("handler is nil")
	ErrInvalidBatchSize = errors.New("invalid batch size")
	ErrInvalidStrategy  = errors.New("invalid executor strategy")
	ErrInvalidOverflow  = errors.New("invalid overflow policy")
	ErrInvalidFailure   = errors.New("invalid failure policy")
)
