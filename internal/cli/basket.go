package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type basketOptions struct {
	userID    string
	dealsFile string
}

func newBasketCommand(root *rootOptions) *cobra.Command {
	opts := &basketOptions{}

	cmd := &cobra.Command{
		Use:   "basket <item>...",
		Short: "Find the best store for a shopping list",
		Long: `Match each shopping list item against the current deals and pick the
single store or pair of stores with the best coverage for the price.`,
		Example: `  dagligdags basket --user ola melk brød egg`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer a.close()

			deals, err := a.loadDeals(ctx, opts.dealsFile)
			if err != nil {
				return fmt.Errorf("load deals: %w", err)
			}

			best := a.optimizer.OptimizeBasket(ctx, opts.userID, args, deals)
			renderBasket(cmd.OutOrStdout(), best, len(args))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "User id")
	cmd.Flags().StringVar(&opts.dealsFile, "deals", "", "Read deals from this JSON file instead of the configured source")

	return cmd
}
