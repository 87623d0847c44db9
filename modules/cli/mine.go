package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/polarysfoundation/chainlab/modules/core/consensus"
	"github.com/polarysfoundation/chainlab/modules/core/consensus/pow"
	"github.com/polarysfoundation/chainlab/modules/crypto"
	"github.com/polarysfoundation/chainlab/modules/miner"
	"github.com/spf13/cobra"
)

func newMineCommand(s *session) *cobra.Command {
	var (
		algo     string
		kind     string
		timeout  time.Duration
		jsonData bool
	)

	cmd := &cobra.Command{
		Use:   "mine <data>",
		Short: "Finalize a new block and append it to the chain",
		Example: `  chainlab mine "alice pays bob 5"
  chainlab mine '{"from":"alice","to":"bob","amount":5}' --json --algo blake2b
  chainlab mine "tx" --consensus poa`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			algorithm, err := crypto.Parse(algo)
			if err != nil {
				return err
			}

			k, err := consensus.ParseKind(kind)
			if err != nil {
				return err
			}

			var data any = args[0]
			if jsonData {
				if !json.Valid([]byte(args[0])) {
					return fmt.Errorf("%w: %q", ErrInvalidJSON, args[0])
				}
				data = json.RawMessage(args[0])
			}

			bc, err := s.load()
			if err != nil {
				return err
			}

			spinner := startStatus(fmt.Sprintf("Finalizing block #%d with %s...", bc.Len(), k))
			s.progress = func(p pow.Progress) {
				spinner.UpdateText(fmt.Sprintf("Mining block #%d: %d attempts, difficulty %d, %s",
					p.Index, p.Attempts, p.Difficulty, p.Elapsed.Round(time.Millisecond)))
			}
			defer func() { s.progress = nil }()

			worker := miner.NewWorker(bc, 1, s.log)
			worker.Run()
			defer worker.Stop()

			res, err := worker.Mine(cmd.Context(), miner.Job{
				Data:      data,
				Algorithm: algorithm,
				Consensus: k,
				Timeout:   timeout,
			})
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}

			if err := s.save(bc); err != nil {
				return err
			}

			spinner.Success(fmt.Sprintf("Block #%d appended", res.Block.Index()))
			return renderBlock(res.Block)
		},
	}

	cmd.Flags().StringVarP(&algo, "algo", "a", string(crypto.Default), "hash algorithm (sha256, sha3-256, blake2b, pm256)")
	cmd.Flags().StringVarP(&kind, "consensus", "c", "pow", "consensus mechanism (pow, poa)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "abandon finalization after this long (0 waits indefinitely)")
	cmd.Flags().BoolVar(&jsonData, "json", false, "parse data as JSON")
	return cmd
}
