package adapters

import (
	"github.com/google/wire"
	"github.com/pearl-labs/pearl-deploy/internal/adapters/blockchain"
	"github.com/pearl-labs/pearl-deploy/internal/adapters/fs"
	"github.com/pearl-labs/pearl-deploy/internal/adapters/progress"
	"github.com/pearl-labs/pearl-deploy/internal/adapters/repository/contracts"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewRegistryStoreAdapter,
	wire.Bind(new(usecase.RegistryStore), new(*fs.RegistryStoreAdapter)),

	fs.NewVerificationLogAdapter,
	wire.Bind(new(usecase.VerificationLog), new(*fs.VerificationLogAdapter)),

	fs.NewPlanLoaderAdapter,
	wire.Bind(new(usecase.PlanLoader), new(*fs.PlanLoaderAdapter)),
)

// ArtifactSet provides the compiled artifact repository
var ArtifactSet = wire.NewSet(
	contracts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Client)),

	blockchain.NewCreate3Factory,
	wire.Bind(new(usecase.DeterministicFactory), new(*blockchain.Create3Factory)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.ProvideSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ArtifactSet,
	BlockchainSet,
	ProgressSet,
)
