package models

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DeploymentStrategy selects how a step decides whether to deploy
type DeploymentStrategy string

const (
	// StrategyDeterministic deploys through the CREATE3 factory at a salt-derived address
	StrategyDeterministic DeploymentStrategy = "deterministic"
	// StrategyDiff redeploys with a plain CREATE when the on-chain code length differs
	StrategyDiff DeploymentStrategy = "diff"
)

// Valid reports whether s names a known strategy.
func (s DeploymentStrategy) Valid() bool {
	return s == StrategyDeterministic || s == StrategyDiff
}

// ArgKind tags the variant held by a ConstructorArg
type ArgKind string

const (
	ArgAddress ArgKind = "address"
	ArgInteger ArgKind = "integer"
	ArgString  ArgKind = "string"
	ArgBytes   ArgKind = "bytes"
	ArgBool    ArgKind = "bool"

	// ArgRef is resolved to the registry address of an earlier tracking name
	ArgRef ArgKind = "ref"
	// ArgSigner is resolved to the address of the deploying account
	ArgSigner ArgKind = "signer"
)

// ConstructorArg is a tagged constructor argument value.
type ConstructorArg struct {
	Kind    ArgKind
	Address common.Address
	Integer *big.Int
	Str     string
	Bytes   []byte
	Bool    bool
	Ref     string
}

func AddressArg(a common.Address) ConstructorArg { return ConstructorArg{Kind: ArgAddress, Address: a} }
func IntegerArg(i *big.Int) ConstructorArg      { return ConstructorArg{Kind: ArgInteger, Integer: i} }
func StringArg(s string) ConstructorArg         { return ConstructorArg{Kind: ArgString, Str: s} }
func BytesArg(b []byte) ConstructorArg          { return ConstructorArg{Kind: ArgBytes, Bytes: b} }
func BoolArg(b bool) ConstructorArg             { return ConstructorArg{Kind: ArgBool, Bool: b} }
func RefArg(name string) ConstructorArg         { return ConstructorArg{Kind: ArgRef, Ref: name} }
func SignerArg() ConstructorArg                 { return ConstructorArg{Kind: ArgSigner} }

// Resolved reports whether the argument can be encoded as-is.
func (a ConstructorArg) Resolved() bool {
	return a.Kind != ArgRef && a.Kind != ArgSigner
}

// String renders the argument the way verification tools expect it on a command line.
func (a ConstructorArg) String() string {
	switch a.Kind {
	case ArgAddress:
		return a.Address.Hex()
	case ArgInteger:
		if a.Integer == nil {
			return "0"
		}
		return a.Integer.String()
	case ArgString:
		if a.Str == "" || strings.ContainsAny(a.Str, " \t\n\"'") {
			return fmt.Sprintf("%q", a.Str)
		}
		return a.Str
	case ArgBytes:
		return hexutil.Encode(a.Bytes)
	case ArgBool:
		return fmt.Sprintf("%t", a.Bool)
	case ArgRef:
		return "ref:" + a.Ref
	case ArgSigner:
		return "signer"
	default:
		return ""
	}
}

// DeploymentStep describes a single named deployment in a plan.
type DeploymentStep struct {
	// ContractName is the artifact/template name.
	ContractName string
	// TrackingName is the registry key; defaults to ContractName.
	TrackingName string
	Args         []ConstructorArg
	// Libraries maps library names to an address or a ref.
	Libraries map[string]ConstructorArg
	// Strategy overrides the plan default when set.
	Strategy DeploymentStrategy
	// ArtifactPath loads the template from a specific artifact file.
	ArtifactPath string
}

// Name returns the registry key of the step.
func (s DeploymentStep) Name() string {
	if s.TrackingName != "" {
		return s.TrackingName
	}
	return s.ContractName
}

// DeploymentPlan is an ordered list of steps executed sequentially.
type DeploymentPlan struct {
	Strategy DeploymentStrategy
	Steps    []DeploymentStep
}

// StrategyFor returns the effective strategy of a step.
func (p *DeploymentPlan) StrategyFor(step DeploymentStep) DeploymentStrategy {
	if step.Strategy != "" {
		return step.Strategy
	}
	if p.Strategy != "" {
		return p.Strategy
	}
	return StrategyDeterministic
}

// DeploymentOutcome is produced by a deployer strategy for one step.
type DeploymentOutcome struct {
	Address         common.Address
	IsNewlyDeployed bool
	TxHash          common.Hash
	Strategy        DeploymentStrategy
}
