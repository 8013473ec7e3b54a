package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
	"github.com/pearl-labs/pearl-deploy/pkg/create3"
)

// PredictAddressParams contains parameters for address prediction
type PredictAddressParams struct {
	// Names to predict; empty predicts every deterministic step of the plan
	Names []string
	// Offline derives addresses locally instead of asking the factory
	Offline bool
}

// PredictedAddress is the CREATE3 target of one tracking name
type PredictedAddress struct {
	Name    string
	Salt    common.Hash
	Address common.Address
	// Recorded is the address currently in the registry, if any
	Recorded *common.Address
	// Deployed is only known when predicting online
	Deployed *bool
}

// PredictAddressResult contains the result of a prediction
type PredictAddressResult struct {
	Network   string
	Factory   common.Address
	Account   common.Address
	Offline   bool
	Addresses []PredictedAddress
}

// PredictAddress reports where the deterministic strategy would deploy each name.
type PredictAddress struct {
	config        *config.RuntimeConfig
	chain         ChainClient
	plans         PlanLoader
	registry      RegistryStore
	deterministic *DeployDeterministic
	log           *slog.Logger
}

// NewPredictAddress creates a new PredictAddress use case
func NewPredictAddress(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	plans PlanLoader,
	registry RegistryStore,
	deterministic *DeployDeterministic,
	log *slog.Logger,
) *PredictAddress {
	return &PredictAddress{
		config:        cfg,
		chain:         chain,
		plans:         plans,
		registry:      registry,
		deterministic: deterministic,
		log:           log.With("component", "PredictAddress"),
	}
}

// Execute predicts the addresses
func (uc *PredictAddress) Execute(ctx context.Context, params PredictAddressParams) (*PredictAddressResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	account := uc.chain.Account()
	if account == (common.Address{}) {
		return nil, fmt.Errorf("no signing account configured for network %s", uc.config.Network.Name)
	}

	registry, err := uc.registry.Load(ctx, uc.config.Network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	factory, globalSalt, err := FactoryParams(registry)
	if err != nil {
		return nil, err
	}

	names := params.Names
	if len(names) == 0 {
		names, err = uc.deterministicSteps(ctx)
		if err != nil {
			return nil, err
		}
	}

	result := &PredictAddressResult{
		Network: registry.Network,
		Factory: factory,
		Account: account,
		Offline: params.Offline,
	}
	for _, name := range names {
		predicted := PredictedAddress{Name: name}
		if params.Offline {
			salt := DeploymentSalt(globalSalt, name)
			predicted.Salt = salt
			predicted.Address = create3.Address(factory, account, salt)
		} else {
			p, err := uc.deterministic.Predict(ctx, registry, name)
			if err != nil {
				return nil, err
			}
			predicted.Salt = p.Salt
			predicted.Address = p.Address

			code, err := uc.chain.Code(ctx, p.Address)
			if err != nil {
				return nil, domain.NewTransportError("get code at "+p.Address.Hex(), err)
			}
			deployed := len(code) > 0
			predicted.Deployed = &deployed
		}
		if recorded, ok := registry.Address(name); ok {
			predicted.Recorded = &recorded
		}
		result.Addresses = append(result.Addresses, predicted)
	}
	return result, nil
}

func (uc *PredictAddress) deterministicSteps(ctx context.Context) ([]string, error) {
	plan, err := uc.plans.LoadPlan(ctx, uc.config.Deploy.PlanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	var names []string
	for _, step := range plan.Steps {
		if plan.StrategyFor(step) == models.StrategyDeterministic {
			names = append(names, step.Name())
		}
	}
	return names, nil
}
