package pow

import (
	"context"
	"time"

	"github.com/polarysfoundation/chainlab/modules/common"
	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/sirupsen/logrus"
)

const Target = '0'

var DefaultProgressInterval = uint64(100000)

type Progress struct {
	Index      uint64
	Difficulty int
	Attempts   uint64
	Nonce      uint64
	Elapsed    time.Duration
}

type ProgressFunc func(Progress)

type Consensus struct {
	interval uint64
	progress ProgressFunc
	log      *logrus.Logger
}

// InitConsensus creates the proof-of-work engine. progress may be nil; it is
// called every interval attempts and never influences the search.
func InitConsensus(interval uint64, progress ProgressFunc, log *logrus.Logger) *Consensus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if interval == 0 {
		interval = DefaultProgressInterval
	}

	return &Consensus{
		interval: interval,
		progress: progress,
		log:      log,
	}
}

func (c *Consensus) Kind() consensus.Kind {
	return consensus.ProofOfWork
}

// MeetsTarget reports whether the first difficulty characters of hash are
// all Target.
func MeetsTarget(hash string, difficulty int) bool {
	return common.HasPrefixRun(hash, Target, difficulty)
}

// Finalize searches nonces from zero upwards until the hash meets the
// difficulty. The winning nonce depends only on the header and difficulty.
func (c *Consensus) Finalize(ctx context.Context, blk *block.Block, difficulty int) (block.Seal, error) {
	if blk == nil {
		return block.Seal{}, consensus.ErrNilBlock
	}

	header := blk.Header()
	if err := consensus.ValidateDifficulty(difficulty, header.Algorithm); err != nil {
		return block.Seal{}, err
	}

	if err := ctx.Err(); err != nil {
		return block.Seal{}, consensus.ContextError(err)
	}

	logger := c.log.WithFields(logrus.Fields{
		"index":      header.Index,
		"difficulty": difficulty,
		"algorithm":  header.Algorithm,
	})
	logger.Debug("Mining started")

	start := time.Now()
	header.Nonce = 0
	hash := header.Hash()
	attempts := uint64(1)

	for !MeetsTarget(hash, difficulty) {
		if err := ctx.Err(); err != nil {
			logger.WithFields(logrus.Fields{
				"attempts": attempts,
				"elapsed":  time.Since(start),
			}).Warn("Mining interrupted")
			return block.Seal{}, consensus.ContextError(err)
		}

		header.Nonce++
		hash = header.Hash()
		attempts++

		if attempts%c.interval == 0 {
			c.report(logger, Progress{
				Index:      header.Index,
				Difficulty: difficulty,
				Attempts:   attempts,
				Nonce:      header.Nonce,
				Elapsed:    time.Since(start),
			})
		}
	}

	elapsed := time.Since(start)
	logger.WithFields(logrus.Fields{
		"nonce":    header.Nonce,
		"attempts": attempts,
		"elapsed":  elapsed,
	}).Debug("Block mined")

	return block.Seal{
		Hash:      hash,
		Nonce:     header.Nonce,
		Validator: consensus.MinerLabel,
		Elapsed:   elapsed,
	}, nil
}

func (c *Consensus) report(logger *logrus.Entry, p Progress) {
	var rate float64
	if p.Elapsed > 0 {
		rate = float64(p.Attempts) / p.Elapsed.Seconds()
	}
	logger.WithFields(logrus.Fields{
		"attempts":  p.Attempts,
		"hash_rate": rate,
	}).Debug("Mining progress")

	if c.progress != nil {
		c.progress(p)
	}
}
