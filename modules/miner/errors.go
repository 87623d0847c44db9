package miner

import "errors"

var (
	ErrQueueFull     = errors.New("miner queue is full")
	ErrWorkerStopped = errors.New("miner worker stopped")
)
