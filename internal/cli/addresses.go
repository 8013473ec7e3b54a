package cli

import (
	"github.com/pearl-labs/pearl-deploy/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewAddressesCmd creates the addresses command
func NewAddressesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"ls"},
		Short:   "List the recorded addresses of a network",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			registry, err := app.ListAddresses.Execute(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewAddressesRenderer(cmd.OutOrStdout()).Render(registry)
		},
	}
}
