package pow

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/polarysfoundation/chainlab/modules/crypto"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(interval uint64, progress ProgressFunc) *Consensus {
	logger, _ := test.NewNullLogger()
	return InitConsensus(interval, progress, logger)
}

func newBlock(t *testing.T, algo crypto.Algorithm) *block.Block {
	t.Helper()
	blk, err := block.NewBlock(1, 1700000000, "tx1", "0000abc", algo)
	require.NoError(t, err)
	return blk
}

func TestFinalize_MeetsTarget(t *testing.T) {
	for _, algo := range crypto.Algorithms() {
		for difficulty := 0; difficulty <= 3; difficulty++ {
			blk := newBlock(t, algo)
			seal, err := newEngine(0, nil).Finalize(context.Background(), blk, difficulty)
			require.NoError(t, err)

			assert.True(t, MeetsTarget(seal.Hash, difficulty), "%s d=%d hash=%s", algo, difficulty, seal.Hash)
			assert.Equal(t, consensus.MinerLabel, seal.Validator)

			require.NoError(t, blk.Finalize(seal))
			assert.Equal(t, blk.ComputeHash(), blk.Hash())
		}
	}
}

func TestFinalize_DifficultyZero(t *testing.T) {
	seal, err := newEngine(0, nil).Finalize(context.Background(), newBlock(t, crypto.SHA256), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), seal.Nonce)
}

func TestFinalize_Deterministic(t *testing.T) {
	engine := newEngine(0, nil)

	s1, err := engine.Finalize(context.Background(), newBlock(t, crypto.SHA256), 3)
	require.NoError(t, err)
	s2, err := engine.Finalize(context.Background(), newBlock(t, crypto.SHA256), 3)
	require.NoError(t, err)

	assert.Equal(t, s1.Nonce, s2.Nonce)
	assert.Equal(t, s1.Hash, s2.Hash)
}

func TestFinalize_FirstMatchingNonce(t *testing.T) {
	blk := newBlock(t, crypto.SHA256)
	seal, err := newEngine(0, nil).Finalize(context.Background(), blk, 2)
	require.NoError(t, err)

	header := blk.Header()
	for n := uint64(0); n < seal.Nonce; n++ {
		header.Nonce = n
		assert.False(t, MeetsTarget(header.Hash(), 2), "nonce %d already met the target", n)
	}
}

func TestFinalize_DoesNotMutateBlock(t *testing.T) {
	blk := newBlock(t, crypto.SHA256)
	before := blk.Header()

	_, err := newEngine(0, nil).Finalize(context.Background(), blk, 2)
	require.NoError(t, err)

	assert.Equal(t, before, blk.Header())
	assert.Equal(t, block.Unfinalized, blk.State())
}

func TestFinalize_InvalidDifficulty(t *testing.T) {
	engine := newEngine(0, nil)

	_, err := engine.Finalize(context.Background(), newBlock(t, crypto.SHA256), 65)
	assert.ErrorIs(t, err, consensus.ErrInvalidDifficulty)

	_, err = engine.Finalize(context.Background(), newBlock(t, crypto.SHA256), -1)
	assert.ErrorIs(t, err, consensus.ErrInvalidDifficulty)

	_, err = engine.Finalize(context.Background(), nil, 1)
	assert.ErrorIs(t, err, consensus.ErrNilBlock)
}

func TestFinalize_Timeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := newEngine(0, nil).Finalize(ctx, newBlock(t, crypto.SHA256), 5)
	assert.ErrorIs(t, err, consensus.ErrConsensusTimeout)

	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = newEngine(0, nil).Finalize(ctx, newBlock(t, crypto.SHA256), 12)
	assert.ErrorIs(t, err, consensus.ErrConsensusTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFinalize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := newEngine(0, nil).Finalize(ctx, newBlock(t, crypto.SHA256), 12)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, consensus.ErrConsensusTimeout)
}

func TestFinalize_Progress(t *testing.T) {
	var reports []Progress
	engine := newEngine(16, func(p Progress) {
		reports = append(reports, p)
	})

	blk := newBlock(t, crypto.SHA256)
	seal, err := engine.Finalize(context.Background(), blk, 3)
	require.NoError(t, err)

	attempts := seal.Nonce + 1
	assert.Len(t, reports, int(attempts/16))
	for _, p := range reports {
		assert.Zero(t, p.Attempts%16)
		assert.Equal(t, 3, p.Difficulty)
		assert.Equal(t, p.Attempts-1, p.Nonce)
	}

	plain, err := newEngine(0, nil).Finalize(context.Background(), newBlock(t, crypto.SHA256), 3)
	require.NoError(t, err)
	assert.Equal(t, plain.Nonce, seal.Nonce)
}

func TestMeetsTarget(t *testing.T) {
	assert.True(t, MeetsTarget("00ab", 2))
	assert.False(t, MeetsTarget("0a0b", 2))
	assert.True(t, MeetsTarget("abcd", 0))
	assert.False(t, MeetsTarget("00", 3))
}

func TestReport_ZeroElapsed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	var got []Progress
	c := InitConsensus(1, func(p Progress) { got = append(got, p) }, logger)

	c.report(logger.WithField("index", 1), Progress{Index: 1, Attempts: 5})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	rate, ok := entry.Data["hash_rate"].(float64)
	require.True(t, ok)
	assert.False(t, math.IsInf(rate, 0) || math.IsNaN(rate))
	assert.Equal(t, 0.0, rate)

	_, err := (&logrus.JSONFormatter{}).Format(entry)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}
