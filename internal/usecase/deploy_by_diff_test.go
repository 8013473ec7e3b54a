package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployByDiff_DeploysWhenUntracked(t *testing.T) {
	env := newTestEnv(nil)
	registry := models.NewAddressRegistry("local", nil)

	outcome, err := env.diff().Deploy(context.Background(), registry, deployRequest("Factory", "0x60016001"))
	require.NoError(t, err)

	want := crypto.CreateAddress(testAccount, 0)
	assert.True(t, outcome.IsNewlyDeployed)
	assert.Equal(t, want, outcome.Address)
	assert.Equal(t, models.StrategyDiff, outcome.Strategy)
	require.Len(t, env.chain.sent, 1)
	assert.Nil(t, env.chain.sent[0].To)
	assert.Equal(t, want.Hex(), env.store.saved["local"]["Factory"])
}

func TestDeployByDiff_LengthComparison(t *testing.T) {
	recorded := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	tests := []struct {
		name        string
		onchain     string
		baseline    bool
		expectedLen int
		redeploy    bool
	}{
		{"same code", "0xaabbcc", true, 3, false},
		// equal length with different content counts as unchanged
		{"same length different content", "0x010203", true, 3, false},
		{"longer on chain", "0xaabbccdd", true, 3, true},
		{"shorter on chain", "0xaa", true, 3, true},
		{"no code at recorded address", "0x", true, 3, true},
		{"no baseline", "0xaabbcc", false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(nil)
			env.chain.code[recorded] = common.FromHex(tt.onchain)
			registry := models.NewAddressRegistry("local", map[string]string{"Factory": recorded.Hex()})

			req := deployRequest("Factory", "0x60016001")
			req.HasBaseline = tt.baseline
			req.ExpectedCodeSize = tt.expectedLen

			outcome, err := env.diff().Deploy(context.Background(), registry, req)
			require.NoError(t, err)
			assert.Equal(t, tt.redeploy, outcome.IsNewlyDeployed)

			if tt.redeploy {
				assert.Len(t, env.chain.sent, 1)
				assert.NotEqual(t, recorded, outcome.Address)
				got, _ := registry.Address("Factory")
				assert.Equal(t, outcome.Address, got)
				assert.Equal(t, 1, env.store.saves)
			} else {
				assert.Empty(t, env.chain.sent)
				assert.Equal(t, recorded, outcome.Address)
				assert.Equal(t, 0, env.store.saves)
			}
		})
	}
}

func TestDeployByDiff_UntrackedInstanceIsRedeployed(t *testing.T) {
	env := newTestEnv(nil)
	registry := models.NewAddressRegistry("local", nil)

	first, err := env.diff().Deploy(context.Background(), registry, deployRequest("Factory", "0x60016001"))
	require.NoError(t, err)

	// crash before persisting: the instance exists on chain, the registry forgot it
	lost := models.NewAddressRegistry("local", nil)
	second, err := env.diff().Deploy(context.Background(), lost, deployRequest("Factory", "0x60016001"))
	require.NoError(t, err)

	assert.True(t, second.IsNewlyDeployed)
	assert.NotEqual(t, first.Address, second.Address)
	assert.Len(t, env.chain.sent, 2)
}

func TestDeployByDiff_Failures(t *testing.T) {
	recorded := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	tests := []struct {
		name    string
		tracked bool
		setup   func(c *fakeChain)
		target  error
		action  domain.StepAction
	}{
		{"code query fails", true, func(c *fakeChain) { c.codeErr = errors.New("timeout") }, domain.ErrTransport, domain.ActionCheckCode},
		{"send fails", false, func(c *fakeChain) { c.sendErr = errors.New("nonce too low") }, domain.ErrTransport, domain.ActionDeploy},
		{"reverted", false, func(c *fakeChain) { c.revert = true }, domain.ErrTransactionFailed, domain.ActionDeploy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(nil)
			tt.setup(env.chain)
			entries := map[string]string{}
			if tt.tracked {
				entries["Factory"] = recorded.Hex()
			}
			registry := models.NewAddressRegistry("local", entries)

			_, err := env.diff().Deploy(context.Background(), registry, deployRequest("Factory", "0x60016001"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var stepErr *domain.StepError
			require.True(t, errors.As(err, &stepErr))
			assert.Equal(t, tt.action, stepErr.Action)
			assert.Equal(t, 0, env.store.saves)
		})
	}
}
