package prydb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/polarysfoundation/chainlab/modules/core"
	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/polarysfoundation/chainlab/modules/crypto"
	"github.com/polarysfoundation/chainlab/modules/params"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()

	logger, _ := test.NewNullLogger()
	db, err := InitDB(filepath.Join(t.TempDir(), "store"), "test", logger)
	require.NoError(t, err)
	return db
}

func newTestChain(t *testing.T) *core.Blockchain {
	t.Helper()

	config := params.DefaultConfig()
	config.Difficulty = 1
	config.PoaEngine.Delay = time.Millisecond

	logger, _ := test.NewNullLogger()
	bc, err := core.InitBlockchain(context.Background(), config, core.DefaultEngines(config, nil, logger), logger)
	require.NoError(t, err)

	_, err = bc.Append(context.Background(), "tx1", crypto.SHA3256, consensus.ProofOfWork)
	require.NoError(t, err)
	_, err = bc.Append(context.Background(), map[string]any{"to": "bob", "amount": 5}, crypto.BLAKE2b, consensus.ProofOfAuthority)
	require.NoError(t, err)

	return bc
}

func TestSaveLoadChain(t *testing.T) {
	db := newTestDB(t)
	bc := newTestChain(t)

	require.NoError(t, db.SaveChain(bc.ID(), bc.Difficulty(), bc.Blocks()))

	blocks, err := db.LoadChain(bc.ID())
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	for i, blk := range bc.Blocks() {
		assert.Equal(t, blk.Hash(), blocks[i].Hash())
		assert.Equal(t, blk.Prev(), blocks[i].Prev())
		assert.Equal(t, blk.Validator(), blocks[i].Validator())
		assert.Equal(t, blk.Algorithm(), blocks[i].Algorithm())
		assert.Equal(t, block.Finalized, blocks[i].State())
	}

	info, err := db.Chain(bc.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, info.Difficulty)
	assert.Equal(t, 3, info.Length)

	logger, _ := test.NewNullLogger()
	restored, err := core.Restore(bc.ID(), nil, core.DefaultEngines(params.DefaultConfig(), nil, logger), blocks, logger)
	require.NoError(t, err)
	assert.True(t, restored.Validate().Valid)
}

func TestSaveChain_TamperPersists(t *testing.T) {
	db := newTestDB(t)
	bc := newTestChain(t)

	require.NoError(t, db.SaveChain(bc.ID(), bc.Difficulty(), bc.Blocks()))
	require.NoError(t, bc.Tamper(1, "HACKED"))
	require.NoError(t, db.SaveChain(bc.ID(), bc.Difficulty(), bc.Blocks()))

	blocks, err := db.LoadChain(bc.ID())
	require.NoError(t, err)
	assert.Equal(t, "HACKED", blocks[1].Payload())
	assert.Equal(t, block.Tampered, blocks[1].State())

	logger, _ := test.NewNullLogger()
	restored, err := core.Restore(bc.ID(), nil, nil, blocks, logger)
	require.NoError(t, err)

	result := restored.Validate()
	assert.False(t, result.Valid)
	assert.Equal(t, 1, result.Index)
	assert.Equal(t, core.ReasonHashIntegrity, result.Reason)
}

func TestLoadChain_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.LoadChain(uuid.New())
	assert.ErrorIs(t, err, ErrChainNotFound)
}

func TestLatest(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Latest()
	assert.ErrorIs(t, err, ErrNoLatestChain)

	id := uuid.New()
	require.NoError(t, db.SetLatest(id))

	latest, err := db.Latest()
	require.NoError(t, err)
	assert.Equal(t, id, latest)
}

func TestChains(t *testing.T) {
	db := newTestDB(t)
	first := newTestChain(t)
	second := newTestChain(t)

	require.NoError(t, db.SaveChain(first.ID(), 1, first.Blocks()))
	require.NoError(t, db.SaveChain(second.ID(), 2, second.Blocks()))

	chains, err := db.Chains()
	require.NoError(t, err)
	require.Len(t, chains, 2)

	ids := []uuid.UUID{chains[0].ID, chains[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{first.ID(), second.ID()}, ids)
}
