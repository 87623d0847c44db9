package poa

import (
	"context"
	"time"

	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/polarysfoundation/chainlab/modules/utils"
	"github.com/sirupsen/logrus"
)

var (
	DefaultDelay       = 50 * time.Millisecond
	DefaultAuthorities = 5
	DefaultMaxNonce    = 999999
)

// Consensus assigns blocks to a fixed pool of authorities after a short
// deliberation delay. The nonce and the chosen authority are decorative.
type Consensus struct {
	delay       time.Duration
	maxJitter   time.Duration
	authorities int
	maxNonce    int
	log         *logrus.Logger
}

func InitConsensus(delay, maxJitter time.Duration, authorities, maxNonce int, log *logrus.Logger) *Consensus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if authorities < 1 {
		authorities = DefaultAuthorities
	}
	if maxNonce < 1 {
		maxNonce = DefaultMaxNonce
	}

	return &Consensus{
		delay:       delay,
		maxJitter:   maxJitter,
		authorities: authorities,
		maxNonce:    maxNonce,
		log:         log,
	}
}

func (c *Consensus) Kind() consensus.Kind {
	return consensus.ProofOfAuthority
}

func (c *Consensus) Authorities() int {
	return c.authorities
}

// Finalize ignores difficulty.
func (c *Consensus) Finalize(ctx context.Context, blk *block.Block, _ int) (block.Seal, error) {
	if blk == nil {
		return block.Seal{}, consensus.ErrNilBlock
	}

	start := time.Now()
	if err := c.deliberate(ctx); err != nil {
		return block.Seal{}, err
	}

	header := blk.Header()
	header.Nonce = uint64(utils.SecureRandomInt(0, c.maxNonce-1))
	hash := header.Hash()
	validator := consensus.AuthorityLabel(utils.SecureRandomInt(1, c.authorities))
	elapsed := time.Since(start)

	c.log.WithFields(logrus.Fields{
		"index":     header.Index,
		"validator": validator,
		"elapsed":   elapsed,
	}).Debug("Block authorized")

	return block.Seal{
		Hash:      hash,
		Nonce:     header.Nonce,
		Validator: validator,
		Elapsed:   elapsed,
	}, nil
}

func (c *Consensus) deliberate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return consensus.ContextError(err)
	}

	timer := time.NewTimer(c.delay + utils.Jitter(c.maxJitter))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return consensus.ContextError(ctx.Err())
	case <-timer.C:
		return nil
	}
}
