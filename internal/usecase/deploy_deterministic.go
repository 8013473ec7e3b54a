package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

// DeploymentSalt derives the per-name CREATE3 salt: keccak256(globalSalt ‖ trackingName).
// This matches solidityKeccak256(["string","string"], [globalSalt, trackingName]).
func DeploymentSalt(globalSalt, trackingName string) [32]byte {
	return crypto.Keccak256Hash([]byte(globalSalt), []byte(trackingName))
}

// DeployDeterministic deploys through a CREATE3 factory so the address only
// depends on the factory, the deploying account and the salt.
type DeployDeterministic struct {
	chain    ChainClient
	factory  DeterministicFactory
	store    RegistryStore
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployDeterministic creates the deterministic deployer strategy
func NewDeployDeterministic(
	chain ChainClient,
	factory DeterministicFactory,
	store RegistryStore,
	progress ProgressSink,
	log *slog.Logger,
) *DeployDeterministic {
	return &DeployDeterministic{
		chain:    chain,
		factory:  factory,
		store:    store,
		progress: progress,
		log:      log.With("component", "DeployDeterministic"),
	}
}

// Prediction is the deterministic target of a tracking name
type Prediction struct {
	Factory common.Address
	Salt    [32]byte
	Address common.Address
}

// FactoryParams reads the factory address and global salt from the registry.
func FactoryParams(registry *models.AddressRegistry) (common.Address, string, error) {
	factory, ok := registry.Factory()
	if !ok {
		return common.Address{}, "", &domain.RegistryMissingError{Network: registry.Network, Key: models.FactoryKey}
	}
	salt, ok := registry.Salt()
	if !ok {
		return common.Address{}, "", &domain.RegistryMissingError{Network: registry.Network, Key: models.SaltKey}
	}
	return factory, salt, nil
}

// Predict asks the factory for the address trackingName deploys to.
func (d *DeployDeterministic) Predict(ctx context.Context, registry *models.AddressRegistry, trackingName string) (*Prediction, error) {
	factory, globalSalt, err := FactoryParams(registry)
	if err != nil {
		return nil, err
	}
	salt := DeploymentSalt(globalSalt, trackingName)
	predicted, err := d.factory.PredictAddress(ctx, factory, salt, d.chain.Account())
	if err != nil {
		return nil, domain.NewTransportError("predict address", err)
	}
	return &Prediction{Factory: factory, Salt: salt, Address: predicted}, nil
}

// Deploy submits the creation through the factory unless code already exists at the
// predicted address. The address is recorded only once that check (and the deploy) completes.
func (d *DeployDeterministic) Deploy(ctx context.Context, registry *models.AddressRegistry, req *DeployRequest) (*models.DeploymentOutcome, error) {
	name := req.Step.Name()

	prediction, err := d.Predict(ctx, registry, name)
	if err != nil {
		return nil, stepErr(name, domain.ActionPredict, err)
	}

	code, err := d.chain.Code(ctx, prediction.Address)
	if err != nil {
		return nil, stepErr(name, domain.ActionCheckCode, domain.NewTransportError("get code at "+prediction.Address.Hex(), err))
	}

	outcome := &models.DeploymentOutcome{
		Address:  prediction.Address,
		Strategy: models.StrategyDeterministic,
	}

	if len(code) > 0 {
		d.log.Info("already deployed, skipping", "name", name, "address", prediction.Address)
	} else {
		tx, err := d.factory.DeployViaFactory(ctx, prediction.Factory, prediction.Salt, req.InitCode)
		if err != nil {
			return nil, stepErr(name, domain.ActionDeploy, domain.NewTransportError("deploy via factory", err))
		}
		d.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageTxSubmitted,
			Message: fmt.Sprintf("%s: waiting for %s", name, tx.Hash.Hex()),
			Spinner: true,
		})
		if _, err := waitForSuccess(ctx, d.chain, tx); err != nil {
			return nil, stepErr(name, domain.ActionDeploy, err)
		}
		if err := requireCode(ctx, d.chain, prediction.Address, tx.Hash); err != nil {
			return nil, stepErr(name, domain.ActionDeploy, err)
		}
		outcome.IsNewlyDeployed = true
		outcome.TxHash = tx.Hash
		d.log.Info("deployed", "name", name, "address", prediction.Address, "tx", tx.Hash)
	}

	if registry.Set(name, prediction.Address) {
		if err := d.store.Save(ctx, registry); err != nil {
			return nil, stepErr(name, domain.ActionPersist, err)
		}
	}
	return outcome, nil
}

var _ StepDeployer = (*DeployDeterministic)(nil)
