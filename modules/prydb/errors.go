package prydb

import "errors"

var (
	ErrChainNotFound = errors.New("chain not found")
	ErrBlockNotFound = errors.New("block not found")
	ErrNoLatestChain = errors.New("no chain has been used yet")
)
