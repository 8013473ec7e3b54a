package cli

import (
	"github.com/pearl-labs/pearl-deploy/internal/cli/render"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewPredictCmd creates the predict command
func NewPredictCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "predict [name...]",
		Short: "Show the CREATE3 address of tracking names",
		Long: `Show the address the deterministic strategy deploys each tracking name to.

Without names, every deterministic step of the plan is predicted. Addresses are
asked from the factory unless --offline is given.`,
		Example: `  pearl-deploy predict -n sepolia
  pearl-deploy predict -n sepolia Factory Router --offline`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.PredictAddress.Execute(cmd.Context(), usecase.PredictAddressParams{
				Names:   args,
				Offline: offline,
			})
			if err != nil {
				return err
			}

			return render.NewPredictRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Derive addresses locally instead of calling the factory")

	return cmd
}
