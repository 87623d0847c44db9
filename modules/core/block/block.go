package block

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/polarysfoundation/chainlab/modules/common"
	"github.com/polarysfoundation/chainlab/modules/crypto"
)

type State uint8

const (
	Unfinalized State = iota
	Finalized
	Tampered
)

func (s State) String() string {
	switch s {
	case Unfinalized:
		return "unfinalized"
	case Finalized:
		return "finalized"
	case Tampered:
		return "tampered"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Seal is what a consensus engine produces for a block.
type Seal struct {
	Hash      string
	Nonce     uint64
	Validator string
	Elapsed   time.Duration
}

type Block struct {
	header    Header
	hash      string
	validator string
	elapsed   time.Duration
	state     State
}

// NewBlock builds an unfinalized block. The payload is stored in canonical
// JSON form and the algorithm is resolved up front, so the recorded
// algorithm is always the one used for hashing.
func NewBlock(index uint64, timestamp int64, data any, prev string, algo crypto.Algorithm) (*Block, error) {
	payload, err := common.Canonicalize(data)
	if err != nil {
		return nil, fmt.Errorf("canonicalize block data: %w", err)
	}

	resolved, _ := crypto.Resolve(algo)

	return &Block{
		header: Header{
			Index:     index,
			Timestamp: timestamp,
			Data:      payload,
			Prev:      prev,
			Algorithm: resolved,
		},
		state: Unfinalized,
	}, nil
}

func (b *Block) Header() Header {
	return b.header.copy()
}

func (b *Block) Index() uint64 {
	return b.header.Index
}

func (b *Block) Timestamp() int64 {
	return b.header.Timestamp
}

func (b *Block) Data() json.RawMessage {
	return append(json.RawMessage(nil), b.header.Data...)
}

// Payload renders the data for display: JSON strings are unquoted, anything
// else is returned as canonical JSON text.
func (b *Block) Payload() string {
	var s string
	if err := json.Unmarshal(b.header.Data, &s); err == nil {
		return s
	}
	return string(b.header.Data)
}

func (b *Block) Prev() string {
	return b.header.Prev
}

func (b *Block) Nonce() uint64 {
	return b.header.Nonce
}

func (b *Block) Algorithm() crypto.Algorithm {
	return b.header.Algorithm
}

func (b *Block) Hash() string {
	return b.hash
}

func (b *Block) Validator() string {
	return b.validator
}

func (b *Block) Elapsed() time.Duration {
	return b.elapsed
}

func (b *Block) State() State {
	return b.state
}

// ComputeHash recomputes the hash from the current field values. It never
// touches the stored hash.
func (b *Block) ComputeHash() string {
	return b.header.Hash()
}

// IsTampered reports whether the stored hash no longer matches the content.
func (b *Block) IsTampered() bool {
	return b.state != Unfinalized && b.hash != b.ComputeHash()
}

// Finalize applies a consensus seal. It succeeds once per block.
func (b *Block) Finalize(seal Seal) error {
	if b.state != Unfinalized {
		return ErrAlreadyFinalized
	}

	header := b.header
	header.Nonce = seal.Nonce
	if header.Hash() != seal.Hash {
		return ErrSealMismatch
	}

	b.header.Nonce = seal.Nonce
	b.hash = seal.Hash
	b.validator = seal.Validator
	b.elapsed = seal.Elapsed
	b.state = Finalized

	return nil
}

// Tamper overwrites the payload without touching the stored hash.
func (b *Block) Tamper(data any) error {
	if b.state == Unfinalized {
		return ErrNotFinalized
	}

	payload, err := common.Canonicalize(data)
	if err != nil {
		return fmt.Errorf("canonicalize block data: %w", err)
	}

	b.header.Data = payload
	b.state = Tampered
	return nil
}

// Relink overwrites the previous hash. With rehash the stored hash is
// recomputed over the new content, so only the link to the predecessor
// is broken.
func (b *Block) Relink(prev string, rehash bool) error {
	if b.state == Unfinalized {
		return ErrNotFinalized
	}

	b.header.Prev = prev
	if rehash {
		b.hash = b.header.Hash()
	}
	b.state = Tampered
	return nil
}

func (b *Block) Clone() *Block {
	c := *b
	c.header = b.header.copy()
	return &c
}

type encodedBlock struct {
	Header    Header `json:"header"`
	Hash      string `json:"hash"`
	Validator string `json:"validator"`
	Elapsed   int64  `json:"execution_time_ns"`
}

func (b *Block) Serialize() ([]byte, error) {
	temp := encodedBlock{
		Header:    b.header,
		Hash:      b.hash,
		Validator: b.validator,
		Elapsed:   int64(b.elapsed),
	}

	data, err := json.Marshal(temp)
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Deserialize restores a finalized block. The state is derived from the
// content: a block whose stored hash no longer matches comes back Tampered.
func (b *Block) Deserialize(data []byte) error {
	var temp encodedBlock
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	if temp.Hash == "" {
		return ErrMissingHash
	}

	if _, ok := crypto.Resolve(temp.Header.Algorithm); !ok {
		return fmt.Errorf("%w: %q", crypto.ErrUnsupportedAlgorithm, temp.Header.Algorithm)
	}

	payload, err := common.Canonicalize(temp.Header.Data)
	if err != nil {
		return fmt.Errorf("canonicalize block data: %w", err)
	}
	temp.Header.Data = payload

	b.header = temp.Header
	b.hash = temp.Hash
	b.validator = temp.Validator
	b.elapsed = time.Duration(temp.Elapsed)
	b.state = Finalized
	if b.hash != b.header.Hash() {
		b.state = Tampered
	}

	return nil
}
