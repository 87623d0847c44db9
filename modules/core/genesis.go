package core

import (
	"context"
	"fmt"

	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/polarysfoundation/chainlab/modules/params"
)

func (bc *Blockchain) createGenesis(ctx context.Context) error {
	if len(bc.blocks) > 0 {
		return nil
	}

	engine, ok := bc.engines[consensus.ProofOfWork]
	if !ok {
		return fmt.Errorf("%w: %s required for genesis", consensus.ErrUnknownConsensus, consensus.ProofOfWork)
	}

	genesis, err := block.NewBlock(0, timeNow().Unix(), bc.config.GenesisData, params.GenesisPrev, bc.config.GenesisAlgorithm)
	if err != nil {
		return err
	}

	seal, err := engine.Finalize(ctx, genesis, bc.difficulty)
	if err != nil {
		return fmt.Errorf("mine genesis block: %w", err)
	}

	if err := genesis.Finalize(seal); err != nil {
		return err
	}

	bc.blocks = append(bc.blocks, genesis)

	bc.log.WithFields(bc.fields(genesis)).Info("Genesis block created")
	return nil
}
