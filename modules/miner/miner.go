package miner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/polarysfoundation/chainlab/modules/crypto"
)

// Chain is the part of core.Blockchain the worker drives.
type Chain interface {
	ID() uuid.UUID
	Append(ctx context.Context, data any, algo crypto.Algorithm, kind consensus.Kind) (*block.Block, error)
}

// Job describes one append. A zero Timeout means the job runs until the
// submitting context or the worker is done.
type Job struct {
	Data      any
	Algorithm crypto.Algorithm
	Consensus consensus.Kind
	Timeout   time.Duration
}

type Result struct {
	Block *block.Block
	Err   error
}

type request struct {
	ctx    context.Context
	job    Job
	result chan Result
}
