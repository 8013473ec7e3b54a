package usecase

import (
	"context"
	"fmt"

	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

// ListAddresses loads the address registry of the selected network
type ListAddresses struct {
	config   *config.RuntimeConfig
	registry RegistryStore
}

// NewListAddresses creates a new ListAddresses use case
func NewListAddresses(cfg *config.RuntimeConfig, registry RegistryStore) *ListAddresses {
	return &ListAddresses{config: cfg, registry: registry}
}

// Execute returns the registry, empty when nothing was deployed yet
func (uc *ListAddresses) Execute(ctx context.Context) (*models.AddressRegistry, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	return uc.registry.Load(ctx, uc.config.Network.Name)
}
