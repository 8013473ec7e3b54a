package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// RegistryStoreAdapter keeps one addresses.<network>.json document per network.
// There is no locking: only one run per network may write at a time.
type RegistryStoreAdapter struct {
	settings config.DeploySettings
}

// NewRegistryStoreAdapter creates a new RegistryStoreAdapter
func NewRegistryStoreAdapter(cfg *config.RuntimeConfig) *RegistryStoreAdapter {
	return &RegistryStoreAdapter{settings: cfg.Deploy}
}

// Load reads the registry of a network. Returns an empty registry if the file does not exist.
func (s *RegistryStoreAdapter) Load(_ context.Context, network string) (*models.AddressRegistry, error) {
	path := s.settings.RegistryPath(network)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewAddressRegistry(network, nil), nil
		}
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}
	return models.NewAddressRegistry(network, entries), nil
}

// Save overwrites the whole registry document through a temp file and rename.
func (s *RegistryStoreAdapter) Save(_ context.Context, registry *models.AddressRegistry) error {
	path := s.settings.RegistryPath(registry.Network)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := json.MarshalIndent(registry.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace registry file: %w", err)
	}
	return nil
}

// Ensure RegistryStoreAdapter implements RegistryStore
var _ usecase.RegistryStore = (*RegistryStoreAdapter)(nil)
