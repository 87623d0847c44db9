package consensus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/polarysfoundation/chainlab/modules/core/block"
	"github.com/polarysfoundation/chainlab/modules/crypto"
)

type Kind uint8

const (
	ProofOfWork Kind = iota
	ProofOfAuthority
)

func (k Kind) String() string {
	switch k {
	case ProofOfWork:
		return "Proof-of-Work (PoW)"
	case ProofOfAuthority:
		return "Proof-of-Authority (PoA)"
	default:
		return fmt.Sprintf("consensus(%d)", uint8(k))
	}
}

// Short is the label used in metrics and flags.
func (k Kind) Short() string {
	switch k {
	case ProofOfWork:
		return "pow"
	case ProofOfAuthority:
		return "poa"
	default:
		return "unknown"
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pow", "proof-of-work", "proof-of-work (pow)":
		return ProofOfWork, nil
	case "poa", "proof-of-authority", "proof-of-authority (poa)":
		return ProofOfAuthority, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownConsensus, s)
}

// Engine finalizes a block. Finalize must not modify blk; it returns the
// seal the caller applies with block.Finalize.
type Engine interface {
	Kind() Kind
	Finalize(ctx context.Context, blk *block.Block, difficulty int) (block.Seal, error)
}

// MaxDifficulty is the highest difficulty accepted for every algorithm.
func MaxDifficulty() int {
	return crypto.MinHexLen()
}

// ValidateDifficulty bounds d by the hex digest length of algo.
func ValidateDifficulty(d int, algo crypto.Algorithm) error {
	if d < 0 || d > crypto.HexLen(algo) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidDifficulty, d, crypto.HexLen(algo))
	}
	return nil
}

// ContextError translates a context error into the consensus error space.
func ContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrConsensusTimeout, err)
	}
	return fmt.Errorf("consensus interrupted: %w", err)
}
