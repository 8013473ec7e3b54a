package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
	"github.com/pearl-labs/pearl-deploy/pkg/create3"
)

var (
	testAccount = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testFactory = common.HexToAddress("0x9fBB3DF7C40Da2e5A0dE984fFE2CCB7C47cd0ABf")
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeChain is an in-memory chain. Contract creations install the runtime code
// registered for the matching creation bytecode prefix.
type fakeChain struct {
	account  common.Address
	latest   uint64
	pending  uint64
	code     map[common.Address][]byte
	receipts map[common.Hash]*types.Receipt
	sent     []TxRequest
	runtimes []runtimeFor

	codeErr  error
	sendErr  error
	revert   bool
	codeless bool
}

type runtimeFor struct {
	creation []byte
	runtime  []byte
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		account:  testAccount,
		code:     make(map[common.Address][]byte),
		receipts: make(map[common.Hash]*types.Receipt),
	}
}

func (c *fakeChain) installs(creation, runtime []byte) {
	c.runtimes = append(c.runtimes, runtimeFor{creation: creation, runtime: runtime})
}

func (c *fakeChain) runtimeOf(initCode []byte) []byte {
	for _, r := range c.runtimes {
		if bytes.HasPrefix(initCode, r.creation) {
			return r.runtime
		}
	}
	return []byte{0xfe}
}

func (c *fakeChain) Account() common.Address { return c.account }

func (c *fakeChain) TransactionCount(_ context.Context, _ common.Address, tag BlockTag) (uint64, error) {
	if tag == BlockPending {
		return c.pending, nil
	}
	return c.latest, nil
}

func (c *fakeChain) Code(_ context.Context, address common.Address) ([]byte, error) {
	if c.codeErr != nil {
		return nil, c.codeErr
	}
	return c.code[address], nil
}

// mine records a transaction and its receipt, advancing the account nonce.
func (c *fakeChain) mine(req TxRequest, contract common.Address) *PendingTx {
	nonce := c.pending
	if req.Nonce != nil {
		nonce = *req.Nonce
	}
	c.sent = append(c.sent, req)
	hash := crypto.Keccak256Hash(big.NewInt(int64(len(c.sent))).Bytes(), req.Data)

	status := types.ReceiptStatusSuccessful
	if c.revert {
		status = types.ReceiptStatusFailed
	}
	c.receipts[hash] = &types.Receipt{TxHash: hash, Status: status, ContractAddress: contract}
	if req.Nonce == nil {
		c.pending++
		c.latest = c.pending
	}
	return &PendingTx{Hash: hash, Nonce: nonce}
}

func (c *fakeChain) SendTransaction(_ context.Context, req TxRequest) (*PendingTx, error) {
	if c.sendErr != nil {
		return nil, c.sendErr
	}
	if req.To != nil {
		return c.mine(req, common.Address{}), nil
	}
	address := crypto.CreateAddress(c.account, c.pending)
	tx := c.mine(req, address)
	if !c.revert && !c.codeless {
		c.code[address] = c.runtimeOf(req.Data)
	}
	return tx, nil
}

func (c *fakeChain) WaitMined(_ context.Context, tx *PendingTx) (*types.Receipt, error) {
	receipt, ok := c.receipts[tx.Hash]
	if !ok {
		return nil, fmt.Errorf("unknown transaction %s", tx.Hash.Hex())
	}
	return receipt, nil
}

// fakeFactory behaves like a CREATE3Factory deployed on fakeChain.
type fakeFactory struct {
	chain   *fakeChain
	deploys int
}

func (f *fakeFactory) PredictAddress(_ context.Context, factory common.Address, salt [32]byte, account common.Address) (common.Address, error) {
	if f.chain.codeErr != nil {
		return common.Address{}, f.chain.codeErr
	}
	return create3.Address(factory, account, salt), nil
}

func (f *fakeFactory) DeployViaFactory(_ context.Context, factory common.Address, salt [32]byte, initCode []byte) (*PendingTx, error) {
	if f.chain.sendErr != nil {
		return nil, f.chain.sendErr
	}
	f.deploys++
	address := create3.Address(factory, f.chain.account, salt)
	tx := f.chain.mine(TxRequest{To: &factory, Data: initCode}, common.Address{})
	if !f.chain.revert && !f.chain.codeless {
		f.chain.code[address] = f.chain.runtimeOf(initCode)
	}
	return tx, nil
}

// memoryRegistryStore keeps saved registries as plain maps
type memoryRegistryStore struct {
	saved   map[string]map[string]string
	saves   int
	saveErr error
}

func newMemoryRegistryStore() *memoryRegistryStore {
	return &memoryRegistryStore{saved: make(map[string]map[string]string)}
}

func (s *memoryRegistryStore) seed(network string, entries map[string]string) {
	s.saved[network] = entries
}

func (s *memoryRegistryStore) Load(_ context.Context, network string) (*models.AddressRegistry, error) {
	return models.NewAddressRegistry(network, s.saved[network]), nil
}

func (s *memoryRegistryStore) Save(_ context.Context, registry *models.AddressRegistry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.saved[registry.Network] = registry.Entries()
	return nil
}

// memoryArtifacts serves artifacts by contract name or path
type memoryArtifacts map[string]*models.Artifact

func (m memoryArtifacts) GetArtifact(_ context.Context, name string) (*models.Artifact, error) {
	if a, ok := m[name]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (m memoryArtifacts) LoadArtifact(ctx context.Context, path string) (*models.Artifact, error) {
	return m.GetArtifact(ctx, path)
}

// recordingLog collects verification entries
type recordingLog struct {
	entries []VerificationEntry
	err     error
}

func (l *recordingLog) Append(_ context.Context, entry VerificationEntry) error {
	if l.err != nil {
		return l.err
	}
	l.entries = append(l.entries, entry)
	return nil
}

type staticPlan struct {
	plan *models.DeploymentPlan
}

func (p staticPlan) LoadPlan(context.Context, string) (*models.DeploymentPlan, error) {
	return p.plan, nil
}

// recordingProgress keeps every event
type recordingProgress struct {
	NopProgress
	events []ProgressEvent
}

func (p *recordingProgress) OnProgress(_ context.Context, event ProgressEvent) {
	p.events = append(p.events, event)
}

func (p *recordingProgress) stages() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Stage)
	}
	return out
}

const (
	factoryABI = `[{"type":"constructor","inputs":[{"name":"owner","type":"address"}]}]`
	poolABI    = `[{"type":"constructor","inputs":[{"name":"factory","type":"address"},{"name":"fee","type":"uint24"}]}]`
)

func factoryArtifact() *models.Artifact {
	return &models.Artifact{
		ContractName:     "Factory",
		ABI:              []byte(factoryABI),
		Bytecode:         models.BytecodeObject{Object: "0x60016001"},
		DeployedBytecode: models.BytecodeObject{Object: "0xaabbcc"},
	}
}

func poolArtifact() *models.Artifact {
	return &models.Artifact{
		ContractName:     "Pool",
		ABI:              []byte(poolABI),
		Bytecode:         models.BytecodeObject{Object: "0x60026002"},
		DeployedBytecode: models.BytecodeObject{Object: "0x11223344"},
	}
}

// testEnv wires a RunDeployment against the fakes
type testEnv struct {
	chain     *fakeChain
	factory   *fakeFactory
	store     *memoryRegistryStore
	artifacts memoryArtifacts
	log       *recordingLog
	progress  *recordingProgress
	plan      *models.DeploymentPlan
	config    *config.RuntimeConfig
}

func newTestEnv(plan *models.DeploymentPlan) *testEnv {
	chain := newFakeChain()
	chain.installs(common.FromHex("0x60016001"), common.FromHex("0xaabbcc"))
	chain.installs(common.FromHex("0x60026002"), common.FromHex("0x11223344"))

	return &testEnv{
		chain:   chain,
		factory: &fakeFactory{chain: chain},
		store:   newMemoryRegistryStore(),
		artifacts: memoryArtifacts{
			"Factory": factoryArtifact(),
			"Pool":    poolArtifact(),
		},
		log:      &recordingLog{},
		progress: &recordingProgress{},
		plan:     plan,
		config: &config.RuntimeConfig{
			Network: &config.Network{Name: "local"},
			Deploy:  config.DeploySettings{PlanPath: "deploy.yaml"},
		},
	}
}

func (e *testEnv) seedFactory() {
	e.store.seed("local", map[string]string{
		models.SaltKey:    "pearl-v1",
		models.FactoryKey: testFactory.Hex(),
	})
}

func (e *testEnv) deterministic() *DeployDeterministic {
	return NewDeployDeterministic(e.chain, e.factory, e.store, e.progress, testLogger())
}

func (e *testEnv) diff() *DeployByDiff {
	return NewDeployByDiff(e.chain, e.store, e.progress, testLogger())
}

func (e *testEnv) runDeployment() *RunDeployment {
	return NewRunDeployment(
		e.config,
		e.chain,
		staticPlan{plan: e.plan},
		e.store,
		e.artifacts,
		e.log,
		NewReconcileNonce(e.chain, e.progress, testLogger()),
		e.deterministic(),
		e.diff(),
		e.progress,
		testLogger(),
	)
}

func factoryPoolPlan(strategy models.DeploymentStrategy) *models.DeploymentPlan {
	return &models.DeploymentPlan{
		Strategy: strategy,
		Steps: []models.DeploymentStep{
			{ContractName: "Factory", Args: []models.ConstructorArg{models.SignerArg()}},
			{ContractName: "Pool", Args: []models.ConstructorArg{models.RefArg("Factory"), models.IntegerArg(big.NewInt(3000))}},
		},
	}
}
