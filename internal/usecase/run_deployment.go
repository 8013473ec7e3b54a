package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

// RunDeploymentParams contains parameters for a deployment run
type RunDeploymentParams struct {
	// PlanPath overrides the configured plan file
	PlanPath string
}

// StepResult is the outcome of one executed step
type StepResult struct {
	Step    models.DeploymentStep
	Outcome *models.DeploymentOutcome
	// LogErr is set when the verification command could not be recorded
	LogErr error
}

// RunDeploymentResult contains the result of a deployment run
type RunDeploymentResult struct {
	Network string
	Nonce   *NonceReport
	// Halted is true when a nonce filler was sent and no step ran
	Halted bool
	Steps  []StepResult
}

// NewlyDeployed returns the steps that created a contract in this run.
func (r *RunDeploymentResult) NewlyDeployed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Outcome != nil && s.Outcome.IsNewlyDeployed {
			out = append(out, s)
		}
	}
	return out
}

// RunDeployment executes a deployment plan against one network, one step at a time.
type RunDeployment struct {
	config        *config.RuntimeConfig
	chain         ChainClient
	plans         PlanLoader
	registry      RegistryStore
	artifacts     ArtifactRepository
	verifyLog     VerificationLog
	nonce         *ReconcileNonce
	deterministic *DeployDeterministic
	diff          *DeployByDiff
	progress      ProgressSink
	log           *slog.Logger
}

// NewRunDeployment creates a new RunDeployment use case
func NewRunDeployment(
	cfg *config.RuntimeConfig,
	chain ChainClient,
	plans PlanLoader,
	registry RegistryStore,
	artifacts ArtifactRepository,
	verifyLog VerificationLog,
	nonce *ReconcileNonce,
	deterministic *DeployDeterministic,
	diff *DeployByDiff,
	progress ProgressSink,
	log *slog.Logger,
) *RunDeployment {
	return &RunDeployment{
		config:        cfg,
		chain:         chain,
		plans:         plans,
		registry:      registry,
		artifacts:     artifacts,
		verifyLog:     verifyLog,
		nonce:         nonce,
		deterministic: deterministic,
		diff:          diff,
		progress:      progress,
		log:           log.With("component", "RunDeployment"),
	}
}

// Execute runs the plan. Any step failure aborts the run; addresses recorded by
// earlier steps stay persisted.
func (uc *RunDeployment) Execute(ctx context.Context, params RunDeploymentParams) (*RunDeploymentResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	network := uc.config.Network.Name

	planPath := params.PlanPath
	if planPath == "" {
		planPath = uc.config.Deploy.PlanPath
	}
	plan, err := uc.plans.LoadPlan(ctx, planPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	registry, err := uc.registry.Load(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := ValidatePlan(plan, registry); err != nil {
		return nil, err
	}

	result := &RunDeploymentResult{Network: network}

	report, err := uc.nonce.Execute(ctx)
	if err != nil {
		return nil, err
	}
	result.Nonce = report
	if report.Halted {
		result.Halted = true
		return result, nil
	}

	signer := uc.chain.Account()
	for i, step := range plan.Steps {
		name := step.Name()
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageStepStarted,
			Current: i + 1,
			Total:   len(plan.Steps),
			Message: name,
		})

		req, err := uc.prepare(ctx, step, registry, signer)
		if err != nil {
			uc.stepFailed(ctx, i+1, len(plan.Steps), name)
			return result, err
		}

		strategy := plan.StrategyFor(step)
		outcome, err := uc.deployerFor(strategy).Deploy(ctx, registry, req)
		if err != nil {
			uc.stepFailed(ctx, i+1, len(plan.Steps), name)
			return result, err
		}

		stepResult := StepResult{Step: step, Outcome: outcome}
		if outcome.IsNewlyDeployed {
			stepResult.LogErr = uc.recordVerification(ctx, network, req, outcome.Address)
		}
		result.Steps = append(result.Steps, stepResult)

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:    StageStepCompleted,
			Current:  i + 1,
			Total:    len(plan.Steps),
			Message:  fmt.Sprintf("%s at %s", name, outcome.Address.Hex()),
			Metadata: outcome,
		})
	}

	return result, nil
}

// stepFailed closes the step for the progress sink so nothing is left
// spinning while the error is reported.
func (uc *RunDeployment) stepFailed(ctx context.Context, current, total int, name string) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageStepFailed,
		Current: current,
		Total:   total,
		Message: name,
	})
}

func (uc *RunDeployment) deployerFor(strategy models.DeploymentStrategy) StepDeployer {
	if strategy == models.StrategyDiff {
		return uc.diff
	}
	return uc.deterministic
}

// prepare resolves the step against the registry and builds its init code.
func (uc *RunDeployment) prepare(ctx context.Context, step models.DeploymentStep, registry *models.AddressRegistry, signer common.Address) (*DeployRequest, error) {
	name := step.Name()

	args, err := ResolveArgs(step.Args, registry, signer)
	if err != nil {
		return nil, stepErr(name, domain.ActionResolve, err)
	}
	libs, err := ResolveLibraries(step.Libraries, registry, signer)
	if err != nil {
		return nil, stepErr(name, domain.ActionResolve, err)
	}

	artifact, err := uc.loadArtifact(ctx, step)
	if err != nil {
		return nil, stepErr(name, domain.ActionArtifact, err)
	}

	parsed, err := artifact.ParseABI()
	if err != nil {
		return nil, stepErr(name, domain.ActionEncode, err)
	}
	creation, err := artifact.CreationCode(libs)
	if err != nil {
		return nil, stepErr(name, domain.ActionEncode, err)
	}
	contract := step.ContractName
	if contract == "" {
		contract = name
	}
	encoded, err := EncodeConstructorArgs(contract, parsed, args)
	if err != nil {
		return nil, stepErr(name, domain.ActionEncode, err)
	}

	initCode := make([]byte, 0, len(creation)+len(encoded))
	initCode = append(initCode, creation...)
	initCode = append(initCode, encoded...)

	return &DeployRequest{
		Step:             step,
		Args:             args,
		InitCode:         initCode,
		HasBaseline:      artifact.HasDeployedBytecode(),
		ExpectedCodeSize: artifact.DeployedBytecode.Size(),
	}, nil
}

func (uc *RunDeployment) loadArtifact(ctx context.Context, step models.DeploymentStep) (*models.Artifact, error) {
	if step.ArtifactPath != "" {
		return uc.artifacts.LoadArtifact(ctx, step.ArtifactPath)
	}
	artifact, err := uc.artifacts.GetArtifact(ctx, step.ContractName)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no artifact for contract %s: %w", step.ContractName, err)
	}
	return artifact, err
}

// recordVerification appends a verification command. Failures are reported but never abort the run.
func (uc *RunDeployment) recordVerification(ctx context.Context, network string, req *DeployRequest, address common.Address) error {
	contract := req.Step.ContractName
	if contract == "" {
		contract = req.Step.Name()
	}
	err := uc.verifyLog.Append(ctx, VerificationEntry{
		Network:      network,
		TrackingName: req.Step.Name(),
		ContractName: contract,
		Address:      address,
		Args:         req.Args,
	})
	if err != nil {
		uc.log.Warn("failed to write verification log", "name", req.Step.Name(), "error", err)
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageWarning,
			Message: fmt.Sprintf("verification command for %s not recorded: %v", req.Step.Name(), err),
		})
	}
	return err
}
