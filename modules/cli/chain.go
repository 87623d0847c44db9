package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newInitCommand(s *session) *cobra.Command {
	var difficulty int

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new chain with a mined genesis block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("difficulty") {
				difficulty = s.config.Difficulty
			}

			spinner := startStatus("Mining genesis block...")
			bc, err := s.create(cmd.Context(), difficulty)
			if err != nil {
				spinner.Fail(err.Error())
				return err
			}

			genesis, err := bc.GetBlock(0)
			if err != nil {
				return err
			}

			spinner.Success(fmt.Sprintf("Chain %s created (difficulty %d)", bc.ID(), bc.Difficulty()))
			return renderBlock(genesis)
		},
	}

	cmd.Flags().IntVarP(&difficulty, "difficulty", "d", 0, "proof-of-work difficulty (leading zero hex digits)")
	return cmd
}

func newDifficultyCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "difficulty [n]",
		Short: "Show or change the difficulty used by future proof-of-work blocks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := s.load()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				pterm.Info.Printfln("Difficulty: %d", bc.Difficulty())
				return nil
			}

			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("difficulty must be an integer: %w", err)
			}

			if err := bc.SetDifficulty(n); err != nil {
				return err
			}

			if err := s.save(bc); err != nil {
				return err
			}

			pterm.Success.Printfln("Difficulty set to %d", n)
			return nil
		},
	}
}

func newChainsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List stored chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chains, err := s.db.Chains()
			if err != nil {
				return err
			}

			latest, _ := s.db.Latest()

			data := pterm.TableData{{"", "ID", "Blocks", "Difficulty", "Updated"}}
			for _, info := range chains {
				marker := ""
				if info.ID == latest {
					marker = "*"
				}
				data = append(data, []string{
					marker,
					info.ID.String(),
					strconv.Itoa(info.Length),
					strconv.Itoa(info.Difficulty),
					time.Unix(info.UpdatedAt, 0).Format(time.DateTime),
				})
			}

			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}

func newUseCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "use <chain-id>",
		Short: "Switch the chain the other commands operate on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return err
			}

			if _, err := s.db.Chain(id); err != nil {
				return err
			}

			if err := s.db.SetLatest(id); err != nil {
				return err
			}

			pterm.Success.Printfln("Using chain %s", id)
			return nil
		},
	}
}
