package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newValidateCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Walk the chain and report the first broken block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := s.load()
			if err != nil {
				return err
			}

			result := bc.Validate()
			if result.Valid {
				pterm.Success.Println(result.Message)
				return nil
			}

			pterm.Error.Printfln("%s (%s)", result.Message, result.Reason)
			return fmt.Errorf("%w at block #%d", ErrChainInvalid, result.Index)
		},
	}
}

func newLedgerCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger",
		Short: "Show every block with its stored and recomputed hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := s.load()
			if err != nil {
				return err
			}

			pterm.DefaultSection.Printfln("Chain %s (difficulty %d)", bc.ID(), bc.Difficulty())
			return renderLedger(bc.Inspect())
		},
	}
}
