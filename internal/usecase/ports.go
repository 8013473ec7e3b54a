package usecase

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

// BlockTag selects which account state a transaction count is read from
type BlockTag string

const (
	BlockLatest  BlockTag = "latest"
	BlockPending BlockTag = "pending"
)

// TxRequest describes a transaction to sign and submit. A nil To creates a contract.
type TxRequest struct {
	To    *common.Address
	Value *big.Int
	Data  []byte
	// Nonce forces a sequence number; nil uses the account's pending nonce
	Nonce *uint64
}

// PendingTx is a submitted transaction that has not been confirmed yet
type PendingTx struct {
	Hash  common.Hash
	Nonce uint64
}

// ChainClient is the network boundary used by the deployers and the nonce reconciler
type ChainClient interface {
	// Account returns the signing account
	Account() common.Address
	TransactionCount(ctx context.Context, account common.Address, tag BlockTag) (uint64, error)
	// Code returns the code at address, empty when none is deployed
	Code(ctx context.Context, address common.Address) ([]byte, error)
	SendTransaction(ctx context.Context, req TxRequest) (*PendingTx, error)
	// WaitMined blocks until the transaction is included and returns its receipt
	WaitMined(ctx context.Context, tx *PendingTx) (*types.Receipt, error)
}

// DeterministicFactory talks to an on-chain CREATE3 factory
type DeterministicFactory interface {
	PredictAddress(ctx context.Context, factory common.Address, salt [32]byte, account common.Address) (common.Address, error)
	DeployViaFactory(ctx context.Context, factory common.Address, salt [32]byte, initCode []byte) (*PendingTx, error)
}

// ArtifactRepository provides compiled contract templates
type ArtifactRepository interface {
	// GetArtifact finds an artifact by contract name, domain.ErrNotFound if absent
	GetArtifact(ctx context.Context, contractName string) (*models.Artifact, error)
	// LoadArtifact reads a specific artifact file
	LoadArtifact(ctx context.Context, path string) (*models.Artifact, error)
}

// RegistryStore persists the per-network address registry
type RegistryStore interface {
	// Load returns an empty registry when nothing was persisted yet
	Load(ctx context.Context, network string) (*models.AddressRegistry, error)
	// Save overwrites the whole registry document
	Save(ctx context.Context, registry *models.AddressRegistry) error
}

// VerificationEntry is one ready-to-run verification command
type VerificationEntry struct {
	Network      string
	TrackingName string
	ContractName string
	Address      common.Address
	Args         []models.ConstructorArg
}

// VerificationLog appends verification commands for new deployments
type VerificationLog interface {
	Append(ctx context.Context, entry VerificationEntry) error
}

// PlanLoader reads a deployment plan
type PlanLoader interface {
	LoadPlan(ctx context.Context, path string) (*models.DeploymentPlan, error)
}

// Progress tracking interfaces

// Progress stages emitted by the deployment run
const (
	StageNonceCheck    = "nonce_check"
	StageNonceFilled   = "nonce_filled"
	StageStepStarted   = "step_started"
	StageTxSubmitted   = "tx_submitted"
	StageStepCompleted = "step_completed"
	StageStepFailed    = "step_failed"
	StageWarning       = "warning"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
