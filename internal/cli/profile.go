package cli

import (
	"fmt"
	"os"

	"github.com/dagligdags/backend/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newProfileCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or store user profiles",
	}

	cmd.AddCommand(
		newProfileShowCommand(root),
		newProfileSetCommand(root),
	)
	return cmd
}

func newProfileShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Print a stored profile as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer a.close()

			profile, err := a.profiles.Load(ctx, args[0])
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(profile)
			if err != nil {
				return fmt.Errorf("encode profile: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newProfileSetCommand(root *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set <user-id>",
		Short: "Store a profile from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read profile file: %w", err)
			}

			// JSON documents are valid YAML
			var profile domain.UserProfile
			if err := yaml.Unmarshal(data, &profile); err != nil {
				return fmt.Errorf("decode profile file: %w", err)
			}

			a, err := newApp(ctx, root)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.profiles.Save(ctx, args[0], profile); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Profile file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
