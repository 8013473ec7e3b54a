package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pearl-labs/pearl-deploy/internal/adapters/abi/bindings"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// Create3Factory implements usecase.DeterministicFactory against an on-chain CREATE3Factory
type Create3Factory struct {
	client  *Client
	binding *bindings.CREATE3Factory
}

// NewCreate3Factory creates a new factory adapter
func NewCreate3Factory(client *Client) *Create3Factory {
	return &Create3Factory{
		client:  client,
		binding: bindings.NewCREATE3Factory(),
	}
}

// PredictAddress calls factory.getDeployed(account, salt)
func (f *Create3Factory) PredictAddress(ctx context.Context, factory common.Address, salt [32]byte, account common.Address) (common.Address, error) {
	data, err := f.binding.TryPackGetDeployed(account, salt)
	if err != nil {
		return common.Address{}, err
	}
	out, err := f.client.Call(ctx, factory, data)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("no CREATE3 factory at %s", factory.Hex())
	}
	return f.binding.UnpackGetDeployed(out)
}

// DeployViaFactory sends factory.deploy(salt, initCode)
func (f *Create3Factory) DeployViaFactory(ctx context.Context, factory common.Address, salt [32]byte, initCode []byte) (*usecase.PendingTx, error) {
	data, err := f.binding.TryPackDeploy(salt, initCode)
	if err != nil {
		return nil, err
	}
	return f.client.SendTransaction(ctx, usecase.TxRequest{
		To:   &factory,
		Data: data,
	})
}

var _ usecase.DeterministicFactory = (*Create3Factory)(nil)
