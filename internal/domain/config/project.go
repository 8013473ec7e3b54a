package config

// ProjectFile is the raw pearl.toml document
type ProjectFile struct {
	Deploy   DeployFileConfig             `toml:"deploy"`
	Networks map[string]NetworkFileConfig `toml:"networks"`
}

// DeployFileConfig is the [deploy] section of pearl.toml
type DeployFileConfig struct {
	Artifacts     string `toml:"artifacts"`
	Deployments   string `toml:"deployments"`
	Plan          string `toml:"plan"`
	VerifyCommand string `toml:"verify_command"`
}

// NetworkFileConfig is a [networks.<name>] section of pearl.toml.
// String values may reference environment variables as ${VAR}.
type NetworkFileConfig struct {
	RPCURL     string `toml:"rpc_url"`
	ChainID    uint64 `toml:"chain_id"`
	PrivateKey string `toml:"private_key"`
	GasPrice   uint64 `toml:"gas_price"`
	GasLimit   uint64 `toml:"gas_limit"`
}
