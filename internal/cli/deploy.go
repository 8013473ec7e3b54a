package cli

import (
	"github.com/pearl-labs/pearl-deploy/internal/cli/render"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var planPath string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deployment plan",
		Long: `Run every step of the deployment plan in order.

Steps whose contract is already deployed are skipped. When the signing account
has a stuck transaction, a filler transaction is sent instead and no step runs.`,
		Example: `  # Deploy the plan in deploy.yaml to sepolia
  pearl-deploy deploy -n sepolia

  # Use another plan file
  pearl-deploy deploy -n mainnet --plan plans/pools.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RunDeployment.Execute(cmd.Context(), usecase.RunDeploymentParams{
				PlanPath: planPath,
			})
			renderer := render.NewDeployRenderer(cmd.OutOrStdout())
			if err != nil {
				_ = renderer.RenderPartial(result)
				return err
			}

			return renderer.Render(result)
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "Deployment plan file (defaults to [deploy].plan)")

	return cmd
}
