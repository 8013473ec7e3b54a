package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

// DeployByDiff reuses a recorded address while the on-chain code size matches
// the compiled runtime size, and otherwise deploys a fresh instance with CREATE.
//
// Only the length is compared: a change that keeps the runtime size identical
// is treated as unchanged.
type DeployByDiff struct {
	chain    ChainClient
	store    RegistryStore
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployByDiff creates the redeploy-by-diff strategy
func NewDeployByDiff(chain ChainClient, store RegistryStore, progress ProgressSink, log *slog.Logger) *DeployByDiff {
	return &DeployByDiff{
		chain:    chain,
		store:    store,
		progress: progress,
		log:      log.With("component", "DeployByDiff"),
	}
}

// Deploy implements StepDeployer
func (d *DeployByDiff) Deploy(ctx context.Context, registry *models.AddressRegistry, req *DeployRequest) (*models.DeploymentOutcome, error) {
	name := req.Step.Name()

	if recorded, ok := registry.Address(name); ok && req.HasBaseline {
		code, err := d.chain.Code(ctx, recorded)
		if err != nil {
			return nil, stepErr(name, domain.ActionCheckCode, domain.NewTransportError("get code at "+recorded.Hex(), err))
		}
		if len(code) == req.ExpectedCodeSize {
			d.log.Info("code size unchanged, skipping", "name", name, "address", recorded, "size", len(code))
			return &models.DeploymentOutcome{
				Address:  recorded,
				Strategy: models.StrategyDiff,
			}, nil
		}
		d.log.Info("code size changed, redeploying", "name", name, "onchain", len(code), "expected", req.ExpectedCodeSize)
	}

	tx, err := d.chain.SendTransaction(ctx, TxRequest{Data: req.InitCode})
	if err != nil {
		return nil, stepErr(name, domain.ActionDeploy, domain.NewTransportError("send creation transaction", err))
	}
	d.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageTxSubmitted,
		Message: fmt.Sprintf("%s: waiting for %s", name, tx.Hash.Hex()),
		Spinner: true,
	})

	receipt, err := waitForSuccess(ctx, d.chain, tx)
	if err != nil {
		return nil, stepErr(name, domain.ActionDeploy, err)
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, stepErr(name, domain.ActionDeploy, &domain.TransactionFailedError{TxHash: tx.Hash, Reason: "receipt has no contract address"})
	}
	if err := requireCode(ctx, d.chain, receipt.ContractAddress, tx.Hash); err != nil {
		return nil, stepErr(name, domain.ActionDeploy, err)
	}

	registry.Set(name, receipt.ContractAddress)
	if err := d.store.Save(ctx, registry); err != nil {
		return nil, stepErr(name, domain.ActionPersist, err)
	}
	d.log.Info("deployed", "name", name, "address", receipt.ContractAddress, "tx", tx.Hash)

	return &models.DeploymentOutcome{
		Address:         receipt.ContractAddress,
		IsNewlyDeployed: true,
		TxHash:          tx.Hash,
		Strategy:        models.StrategyDiff,
	}, nil
}

var _ StepDeployer = (*DeployByDiff)(nil)
