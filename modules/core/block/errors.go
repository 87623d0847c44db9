package block

import "errors"

var (
	ErrAlreadyFinalized = errors.New("block already finalized")
	ErrNotFinalized     = errors.New("block not finalized")
	ErrSealMismatch     = errors.New("seal hash does not match block content")
	ErrMissingHash      = errors.New("block has no stored hash")
)
