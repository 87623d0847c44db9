package consensus

import "errors"

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrConsensusTimeout  = errors.New("consensus timeout")
	ErrUnknownConsensus  = errors.New("unknown consensus")
	ErrNilBlock          = errors.New("block is nil")
)
