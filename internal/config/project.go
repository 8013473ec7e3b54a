package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
)

// ProjectFileName is the project configuration file looked up from the project root
const ProjectFileName = "pearl.toml"

// Defaults for the [deploy] section
const (
	DefaultArtifactsDir   = "artifacts"
	DefaultDeploymentsDir = "."
	DefaultPlanPath       = "deploy.yaml"
	DefaultVerifyCommand  = "npx hardhat verify"
)

// loadEnvFiles loads .env then .env.local. Variables already set in the
// environment are never overridden.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// loadProjectFile reads pearl.toml. A missing file yields an empty document.
func loadProjectFile(projectRoot string) (*config.ProjectFile, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	var file config.ProjectFile
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &file, nil
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}

	for name, network := range file.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.PrivateKey = os.ExpandEnv(network.PrivateKey)
		file.Networks[name] = network
	}
	return &file, nil
}

// deploySettings applies defaults and resolves paths against the project root
func deploySettings(projectRoot string, file config.DeployFileConfig) config.DeploySettings {
	settings := config.DeploySettings{
		ArtifactsDir:   orDefault(file.Artifacts, DefaultArtifactsDir),
		DeploymentsDir: orDefault(file.Deployments, DefaultDeploymentsDir),
		PlanPath:       orDefault(file.Plan, DefaultPlanPath),
		VerifyCommand:  orDefault(strings.TrimSpace(file.VerifyCommand), DefaultVerifyCommand),
	}
	if !filepath.IsAbs(settings.DeploymentsDir) {
		settings.DeploymentsDir = filepath.Join(projectRoot, settings.DeploymentsDir)
	}
	return settings
}

// resolveNetwork builds the runtime network from its pearl.toml section
func resolveNetwork(file *config.ProjectFile, name string) (*config.Network, error) {
	section, ok := file.Networks[name]
	if !ok {
		known := make([]string, 0, len(file.Networks))
		for n := range file.Networks {
			known = append(known, n)
		}
		sort.Strings(known)
		if len(known) == 0 {
			return nil, fmt.Errorf("network '%s' not found: %s has no [networks] sections", name, ProjectFileName)
		}
		return nil, fmt.Errorf("network '%s' not found in %s (available: %s)", name, ProjectFileName, strings.Join(known, ", "))
	}
	if section.RPCURL == "" {
		return nil, fmt.Errorf("network '%s' has no rpc_url", name)
	}

	network := &config.Network{
		Name:       name,
		RPCURL:     section.RPCURL,
		ChainID:    section.ChainID,
		PrivateKey: section.PrivateKey,
		GasLimit:   section.GasLimit,
	}
	if section.GasPrice > 0 {
		network.GasPrice = new(big.Int).SetUint64(section.GasPrice)
	}
	return network, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
