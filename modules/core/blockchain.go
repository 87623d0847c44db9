package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/polarysfoundation/chainlab/modules/crypto"
	"github.com/polarysfoundation/chainlab/modules/params"
	"github.com/sirupsen/logrus"
)

// Blockchain is a session-owned chain. Appends are serialized; reads take
// the read lock and may run concurrently with each other.
type Blockchain struct {
	id         uuid.UUID
	config     *params.Config
	difficulty int
	blocks     []*block.Block
	engines    Engines

	log      *logrus.Logger
	appendMu sync.Mutex
	lock     sync.RWMutex
}

// NewChain creates a chain with default parameters, the given difficulty and
// both consensus engines.
func NewChain(difficulty int, logger *logrus.Logger) (*Blockchain, error) {
	config := params.DefaultConfig()
	config.Difficulty = difficulty

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return InitBlockchain(context.Background(), config, DefaultEngines(config, nil, logger), logger)
}

// InitBlockchain creates a chain and mines its genesis block with
// proof-of-work at config.Difficulty.
func InitBlockchain(ctx context.Context, config *params.Config, engines Engines, logger *logrus.Logger) (*Blockchain, error) {
	bc, err := newBlockchain(uuid.New(), config, engines, logger)
	if err != nil {
		return nil, err
	}

	if err := bc.createGenesis(ctx); err != nil {
		return nil, err
	}

	return bc, nil
}

// Restore rehydrates a chain from a serialized block list without
// revalidating it; tampered blocks stay tampered.
func Restore(id uuid.UUID, config *params.Config, engines Engines, blocks []*block.Block, logger *logrus.Logger) (*Blockchain, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks", ErrInvalidBlockList)
	}

	for i, blk := range blocks {
		if blk == nil {
			return nil, fmt.Errorf("%w: block %d is nil", ErrInvalidBlockList, i)
		}
		if blk.Index() != uint64(i) {
			return nil, fmt.Errorf("%w: block at position %d has index %d", ErrInvalidBlockList, i, blk.Index())
		}
		if blk.State() == block.Unfinalized {
			return nil, fmt.Errorf("%w: block %d is not finalized", ErrInvalidBlockList, i)
		}
	}

	bc, err := newBlockchain(id, config, engines, logger)
	if err != nil {
		return nil, err
	}

	for _, blk := range blocks {
		bc.blocks = append(bc.blocks, blk.Clone())
	}

	bc.log.WithFields(logrus.Fields{
		"chain_id": bc.id,
		"blocks":   len(bc.blocks),
	}).Info("Chain restored")

	return bc, nil
}

func newBlockchain(id uuid.UUID, config *params.Config, engines Engines, logger *logrus.Logger) (*Blockchain, error) {
	if config == nil {
		config = params.DefaultConfig()
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if err := consensus.ValidateDifficulty(config.Difficulty, crypto.Default); err != nil {
		return nil, err
	}

	return &Blockchain{
		id:         id,
		config:     config,
		difficulty: config.Difficulty,
		blocks:     make([]*block.Block, 0),
		engines:    engines,
		log:        logger,
	}, nil
}

func (bc *Blockchain) ID() uuid.UUID {
	return bc.id
}

func (bc *Blockchain) Difficulty() int {
	bc.lock.RLock()
	defer bc.lock.RUnlock()

	return bc.difficulty
}

// SetDifficulty affects only future proof-of-work finalizations.
func (bc *Blockchain) SetDifficulty(n int) error {
	if err := consensus.ValidateDifficulty(n, crypto.Default); err != nil {
		return err
	}

	bc.lock.Lock()
	defer bc.lock.Unlock()

	if bc.difficulty != n {
		bc.log.WithFields(logrus.Fields{
			"chain_id": bc.id,
			"from":     bc.difficulty,
			"to":       n,
		}).Info("Difficulty updated")
	}
	bc.difficulty = n
	return nil
}

func (bc *Blockchain) Len() int {
	bc.lock.RLock()
	defer bc.lock.RUnlock()

	return len(bc.blocks)
}

// GetBlock returns a copy of the block at index.
func (bc *Blockchain) GetBlock(index int) (*block.Block, error) {
	bc.lock.RLock()
	defer bc.lock.RUnlock()

	if index < 0 || index >= len(bc.blocks) {
		return nil, fmt.Errorf("%w: %d (chain has %d blocks)", ErrIndexOutOfRange, index, len(bc.blocks))
	}

	return bc.blocks[index].Clone(), nil
}

func (bc *Blockchain) Tip() (*block.Block, error) {
	bc.lock.RLock()
	defer bc.lock.RUnlock()

	if len(bc.blocks) == 0 {
		return nil, ErrEmptyChain
	}

	return bc.blocks[len(bc.blocks)-1].Clone(), nil
}

// Blocks returns copies of all blocks in index order.
func (bc *Blockchain) Blocks() []*block.Block {
	bc.lock.RLock()
	defer bc.lock.RUnlock()

	blocks := make([]*block.Block, len(bc.blocks))
	for i, blk := range bc.blocks {
		blocks[i] = blk.Clone()
	}
	return blocks
}

// Append builds a block on top of the current tip, finalizes it with the
// requested consensus and appends it. Nothing is appended on error.
// Unsupported algorithms fall back to crypto.Default and the block records
// the fallback.
func (bc *Blockchain) Append(ctx context.Context, data any, algo crypto.Algorithm, kind consensus.Kind) (*block.Block, error) {
	engine, ok := bc.engines[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", consensus.ErrUnknownConsensus, kind)
	}

	resolved, supported := crypto.Resolve(algo)
	if !supported {
		bc.log.WithFields(logrus.Fields{
			"chain_id":  bc.id,
			"requested": algo,
			"algorithm": resolved,
		}).Warn("Unsupported hash algorithm, falling back")
	}

	bc.appendMu.Lock()
	defer bc.appendMu.Unlock()

	bc.lock.RLock()
	if len(bc.blocks) == 0 {
		bc.lock.RUnlock()
		return nil, ErrEmptyChain
	}
	index := uint64(len(bc.blocks))
	prev := bc.blocks[len(bc.blocks)-1].Hash()
	difficulty := bc.difficulty
	bc.lock.RUnlock()

	blk, err := block.NewBlock(index, timeNow().Unix(), data, prev, resolved)
	if err != nil {
		return nil, err
	}

	seal, err := engine.Finalize(ctx, blk, difficulty)
	if err != nil {
		bc.log.WithFields(logrus.Fields{
			"chain_id":  bc.id,
			"index":     index,
			"consensus": kind,
		}).WithError(err).Warn("Block finalization failed")
		return nil, err
	}

	if err := blk.Finalize(seal); err != nil {
		return nil, err
	}

	// blk is shared with Tamper once published.
	bc.lock.Lock()
	bc.blocks = append(bc.blocks, blk)
	fields := bc.fields(blk)
	out := blk.Clone()
	bc.lock.Unlock()

	bc.log.WithFields(fields).Info("Block appended")

	return out, nil
}

// Tamper overwrites the data of a finalized block without rehashing it.
func (bc *Blockchain) Tamper(index int, data any) error {
	bc.lock.Lock()
	defer bc.lock.Unlock()

	blk, err := bc.blockAt(index)
	if err != nil {
		return err
	}

	if err := blk.Tamper(data); err != nil {
		return err
	}

	bc.log.WithFields(logrus.Fields{
		"chain_id": bc.id,
		"index":    index,
	}).Warn("Block data overwritten")
	return nil
}

// TamperLink overwrites the previous hash of a non-genesis block. With
// rehash the stored hash is recomputed so the block itself stays
// consistent and only the link breaks.
func (bc *Blockchain) TamperLink(index int, prev string, rehash bool) error {
	bc.lock.Lock()
	defer bc.lock.Unlock()

	blk, err := bc.blockAt(index)
	if err != nil {
		return err
	}

	if index == 0 {
		return ErrGenesisRelink
	}

	if err := blk.Relink(prev, rehash); err != nil {
		return err
	}

	bc.log.WithFields(logrus.Fields{
		"chain_id": bc.id,
		"index":    index,
		"rehash":   rehash,
	}).Warn("Block link overwritten")
	return nil
}

func (bc *Blockchain) blockAt(index int) (*block.Block, error) {
	if len(bc.blocks) == 0 {
		return nil, ErrEmptyChain
	}

	if index < 0 || index >= len(bc.blocks) {
		return nil, fmt.Errorf("%w: %d (chain has %d blocks)", ErrIndexOutOfRange, index, len(bc.blocks))
	}

	return bc.blocks[index], nil
}

func (bc *Blockchain) fields(blk *block.Block) logrus.Fields {
	return logrus.Fields{
		"chain_id":  bc.id,
		"index":     blk.Index(),
		"algorithm": blk.Algorithm(),
		"nonce":     blk.Nonce(),
		"validator": blk.Validator(),
		"elapsed":   blk.Elapsed(),
	}
}
