//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/pearl-labs/pearl-deploy/internal/adapters"
	"github.com/pearl-labs/pearl-deploy/internal/config"
	"github.com/pearl-labs/pearl-deploy/internal/logging"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewReconcileNonce,
		usecase.NewDeployDeterministic,
		usecase.NewDeployByDiff,
		usecase.NewRunDeployment,
		usecase.NewPredictAddress,
		usecase.NewListAddresses,

		// App
		NewApp,
	)
	return nil, nil
}
