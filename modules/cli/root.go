package cli

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	ConfigPath string
	DataDir    string
	Passphrase string
	Verbose    bool
}

const (
	defaultDataDir    = ".chainlab"
	defaultPassphrase = "chainlab"
)

// NewRootCommand builds the chainlab command tree. Every subcommand works on
// the most recently used chain in the store under --data-dir.
func NewRootCommand(logger *logrus.Logger) *cobra.Command {
	flags := &globalFlags{}
	s := &session{flags: flags, log: logger}

	root := &cobra.Command{
		Use:   "chainlab",
		Short: "Educational blockchain integrity lab",
		Long: `chainlab builds a hash-linked chain of blocks, finalizes them with
proof-of-work or proof-of-authority, and lets you tamper with stored blocks
to watch validation pinpoint the first broken block.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.Verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
			return s.open()
		},
	}

	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "YAML config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&flags.DataDir, "data-dir", defaultDataDir, "directory of the chain store")
	root.PersistentFlags().StringVar(&flags.Passphrase, "passphrase", defaultPassphrase, "store encryption passphrase")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newInitCommand(s),
		newMineCommand(s),
		newTamperCommand(s),
		newRelinkCommand(s),
		newValidateCommand(s),
		newLedgerCommand(s),
		newDifficultyCommand(s),
		newChainsCommand(s),
		newUseCommand(s),
	)

	return root
}

func Execute(ctx context.Context, logger *logrus.Logger) error {
	return NewRootCommand(logger).ExecuteContext(ctx)
}
