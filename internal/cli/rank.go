package cli

import (
	"fmt"

	"github.com/dagligdags/backend/internal/domain"
	"github.com/spf13/cobra"
)

type rankOptions struct {
	userID    string
	top       int
	dealsFile string
	lat       float64
	lon       float64
}

func newRankCommand(root *rootOptions) *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Show your personalized deals",
		Long:  `Score the current deals against a user's profile and list the best ones.`,
		Args:  cobra.NoArgs,
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

			var loc *domain.Location
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				loc = &domain.Location{Lat: opts.lat, Lon: opts.lon}
			}

			ranked := a.matcher.FindPersonalizedDeals(ctx, opts.userID, deals, loc)
			if len(ranked) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No deals found for %s. Run 'dagligdags profile set' to create a profile.\n", opts.userID)
				return nil
			}
			if opts.top > 0 && len(ranked) > opts.top {
				ranked = ranked[:opts.top]
			}

			renderDeals(cmd.OutOrStdout(), ranked)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "User id")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 10, "Number of deals to show")
	cmd.Flags().StringVar(&opts.dealsFile, "deals", "", "Read deals from this JSON file instead of the configured source")
	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "Your latitude")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "Your longitude")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
