package core

import (
	"errors"
)

var (
	ErrQueueFull          = errors.New("queue is full")
	ErrQueueEmpty         = errors.New("queue is empty")
	ErrNotInitialized     = errors.New("engine is not initialized")
	ErrAlreadyInitialized = errors.New("engine is already initialized")
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrUnknownScriptKind  = errors.New("unknown script kind")
	ErrScriptTimeout      = errors.New("script call timed out")
	ErrScriptNotLoaded    = errors.New("script is not loaded")
	ErrUnknown            = errors.New("unknown")
)
