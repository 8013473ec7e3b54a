package config

import (
	"math/big"
	"path/filepath"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Network selected for this run, nil if not specified
	Network *Network

	// Execution settings
	Debug          bool
	NonInteractive bool

	Deploy DeploySettings
}

// DeploySettings holds the [deploy] section of pearl.toml, with paths resolved
type DeploySettings struct {
	ArtifactsDir   string
	DeploymentsDir string
	PlanPath       string
	VerifyCommand  string
}

// RegistryPath returns the address registry file of a network.
func (d DeploySettings) RegistryPath(network string) string {
	return filepath.Join(d.DeploymentsDir, "addresses."+network+".json")
}

// VerificationLogPath returns the verification log file of a network.
func (d DeploySettings) VerificationLogPath(network string) string {
	return filepath.Join(d.DeploymentsDir, "verify."+network+".txt")
}

// Network represents network configuration
type Network struct {
	Name       string
	RPCURL     string
	ChainID    uint64
	PrivateKey string
	// GasPrice and GasLimit are passed through unchanged when set
	GasPrice *big.Int
	GasLimit uint64
}
