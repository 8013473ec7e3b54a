package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProject = `
[deploy]
artifacts = "out"
deployments = "deployments"
verify_command = "forge verify-contract"

[networks.sepolia]
rpc_url = "${PEARL_TEST_RPC}"
chain_id = 11155111
private_key = "${PEARL_TEST_KEY}"
gas_price = 20000000000
gas_limit = 25000000

[networks.local]
rpc_url = "http://127.0.0.1:8545"
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newViper(root string, values map[string]any) *viper.Viper {
	v := SetupViper(root, nil)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestProvider_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Provider(newViper(root, nil))
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, ".pearl"), cfg.DataDir)
	assert.Nil(t, cfg.Network)
	assert.Equal(t, DefaultArtifactsDir, cfg.Deploy.ArtifactsDir)
	assert.Equal(t, root, cfg.Deploy.DeploymentsDir)
	assert.Equal(t, DefaultPlanPath, cfg.Deploy.PlanPath)
	assert.Equal(t, DefaultVerifyCommand, cfg.Deploy.VerifyCommand)
	assert.Equal(t, filepath.Join(root, "addresses.local.json"), cfg.Deploy.RegistryPath("local"))
}

func TestProvider_NetworkFromProjectFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ProjectFileName, sampleProject)
	t.Setenv("PEARL_TEST_RPC", "https://rpc.sepolia.example")
	t.Setenv("PEARL_TEST_KEY", "0xabc")

	cfg, err := Provider(newViper(root, map[string]any{"network": "sepolia"}))
	require.NoError(t, err)

	require.NotNil(t, cfg.Network)
	assert.Equal(t, "sepolia", cfg.Network.Name)
	assert.Equal(t, "https://rpc.sepolia.example", cfg.Network.RPCURL)
	assert.Equal(t, uint64(11155111), cfg.Network.ChainID)
	assert.Equal(t, "0xabc", cfg.Network.PrivateKey)
	assert.Equal(t, big.NewInt(20000000000), cfg.Network.GasPrice)
	assert.Equal(t, uint64(25000000), cfg.Network.GasLimit)

	assert.Equal(t, "out", cfg.Deploy.ArtifactsDir)
	assert.Equal(t, filepath.Join(root, "deployments"), cfg.Deploy.DeploymentsDir)
	assert.Equal(t, "forge verify-contract", cfg.Deploy.VerifyCommand)
}

func TestProvider_GasNotSetIsNil(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ProjectFileName, sampleProject)

	cfg, err := Provider(newViper(root, map[string]any{"network": "local"}))
	require.NoError(t, err)
	assert.Nil(t, cfg.Network.GasPrice)
	assert.Zero(t, cfg.Network.GasLimit)
	assert.Zero(t, cfg.Network.ChainID)
}

func TestProvider_EnvFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ProjectFileName, sampleProject)
	writeFile(t, root, ".env", "PEARL_TEST_RPC=https://from-dotenv.example\nPEARL_TEST_KEY=0xfeed\n")
	// registered for cleanup so the values loaded from .env do not leak
	t.Setenv("PEARL_TEST_RPC", "")
	t.Setenv("PEARL_TEST_KEY", "")
	os.Unsetenv("PEARL_TEST_RPC")
	os.Unsetenv("PEARL_TEST_KEY")

	cfg, err := Provider(newViper(root, map[string]any{"network": "sepolia"}))
	require.NoError(t, err)
	assert.Equal(t, "https://from-dotenv.example", cfg.Network.RPCURL)
	assert.Equal(t, "0xfeed", cfg.Network.PrivateKey)
}

func TestProvider_Overrides(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ProjectFileName, sampleProject)
	t.Setenv("PEARL_NETWORK", "local")
	t.Setenv("PEARL_PRIVATE_KEY", "0x01")

	cfg, err := Provider(newViper(root, map[string]any{"plan": "plans/prod.yaml"}))
	require.NoError(t, err)
	require.NotNil(t, cfg.Network)
	assert.Equal(t, "local", cfg.Network.Name)
	assert.Equal(t, "0x01", cfg.Network.PrivateKey)
	assert.Equal(t, "plans/prod.yaml", cfg.Deploy.PlanPath)
}

func TestProvider_Errors(t *testing.T) {
	t.Run("unknown network", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ProjectFileName, sampleProject)

		_, err := Provider(newViper(root, map[string]any{"network": "mainnet"}))
		assert.ErrorContains(t, err, "network 'mainnet' not found in pearl.toml (available: local, sepolia)")
	})

	t.Run("no networks configured", func(t *testing.T) {
		_, err := Provider(newViper(t.TempDir(), map[string]any{"network": "mainnet"}))
		assert.ErrorContains(t, err, "has no [networks] sections")
	})

	t.Run("missing rpc url", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ProjectFileName, "[networks.empty]\nchain_id = 1\n")

		_, err := Provider(newViper(root, map[string]any{"network": "empty"}))
		assert.ErrorContains(t, err, "has no rpc_url")
	})

	t.Run("malformed project file", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ProjectFileName, "[deploy\n")

		_, err := Provider(newViper(root, nil))
		assert.ErrorContains(t, err, "failed to parse pearl.toml")
	})
}

func TestFindProjectRoot(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	writeFile(t, root, ProjectFileName, "")
	nested := filepath.Join(root, "contracts", "pools")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	found, err := FindProjectRoot()
	require.NoError(t, err)
	assert.Equal(t, root, found)
}

func TestSetupViper_BindsChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "deploy"}
	cmd.Flags().String("network", "", "")
	cmd.Flags().Bool("non-interactive", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--network", "sepolia", "--non-interactive"}))

	v := SetupViper("/tmp/project", cmd)
	assert.Equal(t, "sepolia", v.GetString("network"))
	assert.True(t, v.GetBool("non_interactive"))
	assert.Equal(t, "/tmp/project", v.GetString("project_root"))
}
