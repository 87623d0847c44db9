package block

import (
	"encoding/json"

	"github.com/polarysfoundation/chainlab/modules/common"
	"github.com/polarysfoundation/chainlab/modules/crypto"
)

// Header is the hashed part of a block. The validator label and the
// consensus duration live on Block and never reach the hash input.
type Header struct {
	Index     uint64           `json:"index"`
	Timestamp int64            `json:"timestamp"`
	Data      json.RawMessage  `json:"data"`
	Prev      string           `json:"previous_hash"`
	Nonce     uint64           `json:"nonce"`
	Algorithm crypto.Algorithm `json:"algorithm"`
}

// Serialize returns the canonical hash input: a JSON object with the six
// header keys in lexicographic order.
func (h Header) Serialize() ([]byte, error) {
	return common.Serialize(map[string]any{
		"algorithm":     h.Algorithm,
		"data":          h.Data,
		"index":         h.Index,
		"nonce":         h.Nonce,
		"previous_hash": h.Prev,
		"timestamp":     h.Timestamp,
	})
}

func (h Header) Hash() string {
	data, err := h.Serialize()
	if err != nil {
		panic(err)
	}

	return crypto.Hash(data, h.Algorithm)
}

func (h Header) copy() Header {
	h.Data = append(json.RawMessage(nil), h.Data...)
	return h
}
