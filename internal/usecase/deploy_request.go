package usecase

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

// DeployRequest is a step with its arguments resolved and its init code built
type DeployRequest struct {
	Step models.DeploymentStep
	// Args are the resolved constructor arguments, in order
	Args []models.ConstructorArg
	// InitCode is the linked creation code followed by the encoded arguments
	InitCode []byte
	// HasBaseline is false when the artifact carries no deployed bytecode
	HasBaseline bool
	// ExpectedCodeSize is the size in bytes of the compiled runtime code
	ExpectedCodeSize int
}

// StepDeployer is a deployment strategy. It persists the registry itself
// as soon as it records an address.
type StepDeployer interface {
	Deploy(ctx context.Context, registry *models.AddressRegistry, req *DeployRequest) (*models.DeploymentOutcome, error)
}

// waitForSuccess waits for inclusion and turns a reverted receipt into an error.
func waitForSuccess(ctx context.Context, chain ChainClient, tx *PendingTx) (*types.Receipt, error) {
	receipt, err := chain.WaitMined(ctx, tx)
	if err != nil {
		var failed *domain.TransactionFailedError
		if errors.As(err, &failed) {
			return nil, err
		}
		return nil, domain.NewTransportError("wait for transaction "+tx.Hash.Hex(), err)
	}
	if receipt == nil {
		return nil, &domain.TransactionFailedError{TxHash: tx.Hash, Reason: "no receipt"}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.TransactionFailedError{TxHash: tx.Hash, Reason: "reverted"}
	}
	return receipt, nil
}

// requireCode fails when no code is observed at address after tx was mined.
func requireCode(ctx context.Context, chain ChainClient, address common.Address, tx common.Hash) error {
	code, err := chain.Code(ctx, address)
	if err != nil {
		return domain.NewTransportError("get code at "+address.Hex(), err)
	}
	if len(code) == 0 {
		return &domain.TransactionFailedError{TxHash: tx, Reason: "no code at " + address.Hex() + " after inclusion"}
	}
	return nil
}

func stepErr(step string, action domain.StepAction, err error) error {
	return &domain.StepError{Step: step, Action: action, Err: err}
}
