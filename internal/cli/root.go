package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is reported by --version
const Version = "1.0.0"

type rootOptions struct {
	configPath string
	verbose    bool
}

// NewRootCommand builds the dagligdags command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dagligdags",
		Short: "Personalized grocery deals and basket planning",
		Long: `Dagligdags ranks this week's grocery deals against your preferences
and finds the cheapest store, or pair of stores, for your shopping list.

Profiles are read from the configured profile store and deals from the
configured deal source (see config.yaml or DAGLIGDAGS_* variables).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ./config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newRankCommand(opts),
		newBasketCommand(opts),
		newProfileCommand(opts),
	)

	return cmd
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
