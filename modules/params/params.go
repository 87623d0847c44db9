package params

import (
	"time"

	"github.com/polarysfoundation/chainlab/modules/crypto"
)

const (
	GenesisPrev = "0"
)

// DefaultConfig returns a fresh copy of the default parameters.
func DefaultConfig() *Config {
	return &Config{
		Difficulty:       3,
		GenesisData:      "Genesis Block",
		GenesisAlgorithm: crypto.SHA256,
		PowEngine: PowEngine{
			ProgressInterval: 100000,
		},
		PoaEngine: PoaEngine{
			Delay:       50 * time.Millisecond,
			MaxJitter:   0,
			Authorities: 5,
			MaxNonce:    999999,
		},
	}
}
