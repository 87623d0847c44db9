package core

import (
	"fmt"
	"time"

	"github.com/polarysfoundation/chainlab/modules/crypto"
)

type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonHashIntegrity
	ReasonLinkIntegrity
	ReasonEmptyChain
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonHashIntegrity:
		return "hash integrity"
	case ReasonLinkIntegrity:
		return "link integrity"
	case ReasonEmptyChain:
		return "empty chain"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// Result is the outcome of a validation walk. Index is -1 when the chain is
// valid.
type Result struct {
	Valid   bool
	Index   int
	Reason  Reason
	Message string
}

func (r Result) String() string {
	return r.Message
}

// Validate walks the chain in index order and stops at the first block whose
// recomputed hash differs from its stored hash, or whose previous hash
// differs from the stored hash of its predecessor.
func (bc *Blockchain) Validate() Result {
	bc.lock.RLock()
	defer bc.lock.RUnlock()

	if len(bc.blocks) == 0 {
		return Result{Index: -1, Reason: ReasonEmptyChain, Message: ErrEmptyChain.Error()}
	}

	for i, current := range bc.blocks {
		if current.Hash() != current.ComputeHash() {
			return Result{
				Index:   i,
				Reason:  ReasonHashIntegrity,
				Message: fmt.Sprintf("block #%d: data modified, recomputed hash does not match stored hash", i),
			}
		}

		if i == 0 {
			continue
		}

		if current.Prev() != bc.blocks[i-1].Hash() {
			return Result{
				Index:   i,
				Reason:  ReasonLinkIntegrity,
				Message: fmt.Sprintf("block #%d: broken link, previous hash does not match hash of block #%d", i, i-1),
			}
		}
	}

	return Result{
		Valid:   true,
		Index:   -1,
		Reason:  ReasonNone,
		Message: fmt.Sprintf("chain is valid (%d blocks)", len(bc.blocks)),
	}
}

// Inspection is the stored-versus-recomputed view of one block.
type Inspection struct {
	Index     int
	Algorithm crypto.Algorithm
	Payload   string
	Prev      string
	Nonce     uint64
	Validator string
	Elapsed   time.Duration
	Stored    string
	Actual    string
	Tampered  bool
}

func (bc *Blockchain) Inspect() []Inspection {
	bc.lock.RLock()
	defer bc.lock.RUnlock()

	inspections := make([]Inspection, len(bc.blocks))
	for i, blk := range bc.blocks {
		actual := blk.ComputeHash()
		inspections[i] = Inspection{
			Index:     i,
			Algorithm: blk.Algorithm(),
			Payload:   blk.Payload(),
			Prev:      blk.Prev(),
			Nonce:     blk.Nonce(),
			Validator: blk.Validator(),
			Elapsed:   blk.Elapsed(),
			Stored:    blk.Hash(),
			Actual:    actual,
			Tampered:  actual != blk.Hash(),
		}
	}
	return inspections
}
