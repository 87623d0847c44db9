package cli

import (
	"context"
	"fmt"

	"github.com/polarysfoundation/chainlab/modules/core"
	"github.com/polarysfoundation/chainlab/modules/core/consensus/pow"
	"github.com/polarysfoundation/chainlab/modules/params"
	"github.com/polarysfoundation/chainlab/modules/prydb"
	"github.com/sirupsen/logrus"
)

type session struct {
	flags  *globalFlags
	log    *logrus.Logger
	config *params.Config
	db     *prydb.Database

	// progress receives proof-of-work progress while a command mines.
	progress pow.ProgressFunc
}

func (s *session) open() error {
	config, err := params.LoadConfig(s.flags.ConfigPath)
	if err != nil {
		return err
	}

	db, err := prydb.InitDB(s.flags.DataDir, s.flags.Passphrase, s.log)
	if err != nil {
		return err
	}

	s.config = config
	s.db = db
	return nil
}

func (s *session) engines() core.Engines {
	return core.DefaultEngines(s.config, func(p pow.Progress) {
		if s.progress != nil {
			s.progress(p)
		}
	}, s.log)
}

func (s *session) create(ctx context.Context, difficulty int) (*core.Blockchain, error) {
	config := *s.config
	config.Difficulty = difficulty

	bc, err := core.InitBlockchain(ctx, &config, s.engines(), s.log)
	if err != nil {
		return nil, err
	}

	return bc, s.save(bc)
}

// load restores the most recently used chain.
func (s *session) load() (*core.Blockchain, error) {
	id, err := s.db.Latest()
	if err != nil {
		return nil, fmt.Errorf("%w (run `chainlab init` first)", err)
	}

	info, err := s.db.Chain(id)
	if err != nil {
		return nil, err
	}

	blocks, err := s.db.LoadChain(id)
	if err != nil {
		return nil, err
	}

	config := *s.config
	config.Difficulty = info.Difficulty

	return core.Restore(id, &config, s.engines(), blocks, s.log)
}

func (s *session) save(bc *core.Blockchain) error {
	if err := s.db.SaveChain(bc.ID(), bc.Difficulty(), bc.Blocks()); err != nil {
		return err
	}

	return s.db.SetLatest(bc.ID())
}
