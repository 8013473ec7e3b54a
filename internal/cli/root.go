package cli

import (
	"context"
	"fmt"

	"github.com/pearl-labs/pearl-deploy/internal/app"
	"github.com/pearl-labs/pearl-deploy/internal/config"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// appInitializer builds the app for a command; replaced in tests
var appInitializer = func(cmd *cobra.Command) (*app.App, error) {
	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return nil, err
	}
	return app.InitApp(config.SetupViper(projectRoot, cmd))
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pearl-deploy",
		Short: "Idempotent smart contract deployments",
		Long: `pearl-deploy runs a deployment plan against one network. Each step is either
deployed deterministically through a CREATE3 factory or redeployed when its
on-chain code size differs, and every address is recorded in a per-network registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			appInstance, err := appInitializer(cmd)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, appKey, appInstance))
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable spinners and progress output")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network from pearl.toml [networks] to use")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	predictCmd := NewPredictCmd()
	predictCmd.GroupID = "inspect"
	rootCmd.AddCommand(predictCmd)

	addressesCmd := NewAddressesCmd()
	addressesCmd.GroupID = "inspect"
	rootCmd.AddCommand(addressesCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
