package app

import (
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	Config *config.RuntimeConfig

	// Use cases
	RunDeployment  *usecase.RunDeployment
	PredictAddress *usecase.PredictAddress
	ListAddresses  *usecase.ListAddresses

	// Progress receives events from the use cases; the CLI reuses it for messages
	Progress usecase.ProgressSink
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	runDeployment *usecase.RunDeployment,
	predictAddress *usecase.PredictAddress,
	listAddresses *usecase.ListAddresses,
	progress usecase.ProgressSink,
) (*App, error) {
	return &App{
		Config:         cfg,
		RunDeployment:  runDeployment,
		PredictAddress: predictAddress,
		ListAddresses:  listAddresses,
		Progress:       progress,
	}, nil
}
