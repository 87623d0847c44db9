package cli

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newTamperCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tamper <index> <data>",
		Short: "Overwrite the data of a stored block without rehashing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			bc, err := s.load()
			if err != nil {
				return err
			}

			if err := bc.Tamper(index, args[1]); err != nil {
				return err
			}

			if err := s.save(bc); err != nil {
				return err
			}

			pterm.Warning.Printfln("Block #%d data replaced with %q", index, args[1])
			return nil
		},
	}
}

func newRelinkCommand(s *session) *cobra.Command {
	var rehash bool

	cmd := &cobra.Command{
		Use:   "relink <index> <prev-hash>",
		Short: "Overwrite the previous-hash link of a stored block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			bc, err := s.load()
			if err != nil {
				return err
			}

			if err := bc.TamperLink(index, args[1], rehash); err != nil {
				return err
			}

			if err := s.save(bc); err != nil {
				return err
			}

			pterm.Warning.Printfln("Block #%d now links to %s (rehash: %t)", index, args[1], rehash)
			return nil
		},
	}

	cmd.Flags().BoolVar(&rehash, "rehash", false, "recompute the block hash after relinking")
	return cmd
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index must be an integer: %w", err)
	}
	return index, nil
}
