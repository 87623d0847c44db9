package core

import (
	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/polarysfoundation/chainlab/modules/core/consensus/poa"
	"github.com/polarysfoundation/chainlab/modules/core/consensus/pow"
	"github.com/polarysfoundation/chainlab/modules/params"
	"github.com/sirupsen/logrus"
)

type Engines map[consensus.Kind]consensus.Engine

// DefaultEngines wires both consensus variants from config.
func DefaultEngines(config *params.Config, progress pow.ProgressFunc, logger *logrus.Logger) Engines {
	return Engines{
		consensus.ProofOfWork: pow.InitConsensus(config.PowEngine.ProgressInterval, progress, logger),
		consensus.ProofOfAuthority: poa.InitConsensus(
			config.PoaEngine.Delay,
			config.PoaEngine.MaxJitter,
			config.PoaEngine.Authorities,
			config.PoaEngine.MaxNonce,
			logger,
		),
	}
}
