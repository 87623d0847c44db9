package core

import "errors"

var (
	ErrEmptyChain       = errors.New("chain has no genesis block")
	ErrIndexOutOfRange  = errors.New("block index out of range")
	ErrGenesisRelink    = errors.New("genesis block has no predecessor to relink")
	ErrInvalidBlockList = errors.New("invalid block list")
)
