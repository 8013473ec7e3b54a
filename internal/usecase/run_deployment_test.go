package usecase

import (
	"context"
	"errors"
	"maps"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
	"github.com/pearl-labs/pearl-deploy/pkg/create3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDeployment_FactoryThenPool(t *testing.T) {
	for _, strategy := range []models.DeploymentStrategy{models.StrategyDeterministic, models.StrategyDiff} {
		t.Run(string(strategy), func(t *testing.T) {
			env := newTestEnv(factoryPoolPlan(strategy))
			if strategy == models.StrategyDeterministic {
				env.seedFactory()
			}
			ctx := context.Background()

			result, err := env.runDeployment().Execute(ctx, RunDeploymentParams{})
			require.NoError(t, err)
			assert.False(t, result.Halted)
			require.Len(t, result.Steps, 2)
			assert.Len(t, result.NewlyDeployed(), 2)

			factory := result.Steps[0].Outcome.Address
			pool := result.Steps[1].Outcome.Address

			// Pool's constructor received the Factory address
			require.Len(t, env.log.entries, 2)
			assert.Equal(t, "Factory", env.log.entries[0].TrackingName)
			assert.Equal(t, []models.ConstructorArg{models.AddressArg(testAccount)}, env.log.entries[0].Args)
			assert.Equal(t, "Pool", env.log.entries[1].TrackingName)
			assert.Equal(t, pool, env.log.entries[1].Address)
			assert.Equal(t, []models.ConstructorArg{
				models.AddressArg(factory),
				models.IntegerArg(big.NewInt(3000)),
			}, env.log.entries[1].Args)

			saved := env.store.saved["local"]
			assert.Equal(t, factory.Hex(), saved["Factory"])
			assert.Equal(t, pool.Hex(), saved["Pool"])

			txs := len(env.chain.sent)
			snapshot := maps.Clone(saved)

			second, err := env.runDeployment().Execute(ctx, RunDeploymentParams{})
			require.NoError(t, err)
			assert.Empty(t, second.NewlyDeployed())
			assert.Len(t, env.chain.sent, txs, "second run sends no transactions")
			assert.Len(t, env.log.entries, 2, "second run appends no verification lines")
			assert.Equal(t, snapshot, env.store.saved["local"])
		})
	}
}

func TestRunDeployment_InitCodeCarriesEncodedArgs(t *testing.T) {
	env := newTestEnv(factoryPoolPlan(models.StrategyDiff))

	_, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	require.NoError(t, err)
	require.Len(t, env.chain.sent, 2)

	factory := crypto.CreateAddress(testAccount, 0)
	want := append(common.FromHex("0x60026002"), common.LeftPadBytes(factory.Bytes(), 32)...)
	want = append(want, common.LeftPadBytes(big.NewInt(3000).Bytes(), 32)...)
	assert.Equal(t, want, env.chain.sent[1].Data)
}

func TestRunDeployment_NonceGapHalts(t *testing.T) {
	env := newTestEnv(factoryPoolPlan(models.StrategyDeterministic))
	env.seedFactory()
	env.chain.latest, env.chain.pending = 9, 10

	result, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	require.NoError(t, err)
	assert.True(t, result.Halted)
	assert.Empty(t, result.Steps)

	require.Len(t, env.chain.sent, 1)
	assert.Equal(t, uint64(9), *env.chain.sent[0].Nonce)
	assert.Equal(t, 0, env.factory.deploys)
	assert.Equal(t, 0, env.store.saves)
	assert.Empty(t, env.log.entries)
}

func TestRunDeployment_MissingFactoryAborts(t *testing.T) {
	env := newTestEnv(factoryPoolPlan(models.StrategyDeterministic))

	result, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegistryMissing)
	assert.Empty(t, result.Steps)
	assert.Empty(t, env.chain.sent)
}

func TestRunDeployment_FailureKeepsEarlierSteps(t *testing.T) {
	env := newTestEnv(factoryPoolPlan(models.StrategyDiff))
	delete(env.artifacts, "Pool")

	result, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var stepErr *domain.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "Pool", stepErr.Step)
	assert.Equal(t, domain.ActionArtifact, stepErr.Action)

	require.Len(t, result.Steps, 1)
	assert.Equal(t, crypto.CreateAddress(testAccount, 0).Hex(), env.store.saved["local"]["Factory"])
	stages := env.progress.stages()
	assert.Equal(t, StageStepFailed, stages[len(stages)-1])
	_, recorded := env.store.saved["local"]["Pool"]
	assert.False(t, recorded)
}

func TestRunDeployment_VerificationLogFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(factoryPoolPlan(models.StrategyDiff))
	env.log.err = errors.New("read-only file system")

	result, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	require.NoError(t, err)
	require.Len(t, result.Steps, 2)
	for _, step := range result.Steps {
		assert.Error(t, step.LogErr)
	}
	assert.Contains(t, env.progress.stages(), StageWarning)
	assert.Len(t, env.store.saved["local"], 2)
}

func TestRunDeployment_ArgumentMismatch(t *testing.T) {
	plan := &models.DeploymentPlan{
		Strategy: models.StrategyDiff,
		Steps: []models.DeploymentStep{
			{ContractName: "Factory", Args: []models.ConstructorArg{models.StringArg("not an address")}},
		},
	}
	env := newTestEnv(plan)

	_, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	var stepErr *domain.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, domain.ActionEncode, stepErr.Action)
	assert.Empty(t, env.chain.sent)
}

func TestRunDeployment_InvalidPlan(t *testing.T) {
	plan := &models.DeploymentPlan{
		Steps: []models.DeploymentStep{
			{ContractName: "Pool", Args: []models.ConstructorArg{models.RefArg("Factory")}},
		},
	}
	env := newTestEnv(plan)

	_, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
	assert.Empty(t, env.chain.sent)
}

func TestRunDeployment_MixedStrategiesAndTrackingNames(t *testing.T) {
	plan := &models.DeploymentPlan{
		Strategy: models.StrategyDeterministic,
		Steps: []models.DeploymentStep{
			{ContractName: "Factory", Args: []models.ConstructorArg{models.SignerArg()}},
			{ContractName: "Pool", TrackingName: "PoolA", Args: []models.ConstructorArg{models.RefArg("Factory"), models.IntegerArg(big.NewInt(500))}},
			{ContractName: "Pool", TrackingName: "PoolB", Strategy: models.StrategyDiff, Args: []models.ConstructorArg{models.RefArg("Factory"), models.IntegerArg(big.NewInt(3000))}},
		},
	}
	env := newTestEnv(plan)
	env.seedFactory()

	result, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	require.NoError(t, err)
	require.Len(t, result.Steps, 3)

	assert.Equal(t, create3.Address(testFactory, testAccount, DeploymentSalt("pearl-v1", "PoolA")), result.Steps[1].Outcome.Address)
	assert.Equal(t, models.StrategyDiff, result.Steps[2].Outcome.Strategy)
	assert.NotEqual(t, result.Steps[1].Outcome.Address, result.Steps[2].Outcome.Address)

	saved := env.store.saved["local"]
	assert.Contains(t, saved, "PoolA")
	assert.Contains(t, saved, "PoolB")
	assert.NotContains(t, saved, "Pool")
}

func TestRunDeployment_ProgressEvents(t *testing.T) {
	env := newTestEnv(factoryPoolPlan(models.StrategyDiff))

	_, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		StageNonceCheck,
		StageStepStarted, StageTxSubmitted, StageStepCompleted,
		StageStepStarted, StageTxSubmitted, StageStepCompleted,
	}, env.progress.stages())
}

func TestRunDeployment_ForwardRefRejectedOnRerun(t *testing.T) {
	plan := &models.DeploymentPlan{
		Strategy: models.StrategyDiff,
		Steps: []models.DeploymentStep{
			{ContractName: "Pool", Args: []models.ConstructorArg{models.RefArg("Factory"), models.IntegerArg(big.NewInt(3000))}},
			{ContractName: "Factory", Args: []models.ConstructorArg{models.SignerArg()}},
		},
	}
	env := newTestEnv(plan)
	env.store.seed("local", map[string]string{"Factory": crypto.CreateAddress(testAccount, 0).Hex()})

	_, err := env.runDeployment().Execute(context.Background(), RunDeploymentParams{})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
	assert.ErrorContains(t, err, `later step "Factory"`)
	assert.Empty(t, env.chain.sent)
}
