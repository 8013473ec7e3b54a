package fs

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/config"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// PlanLoaderAdapter reads deployment plans from YAML:
//
//	strategy: deterministic
//	steps:
//	  - contract: Factory
//	    args: [{signer: true}]
//	  - contract: Pool
//	    name: PoolA
//	    strategy: diff
//	    libraries:
//	      Math: {ref: Math}
//	    args:
//	      - {ref: Factory}
//	      - 3000
//	      - {string: "Pool A"}
//	  - artifact: abi/WETH9.json
//	    name: WETH9
//
// Plain scalars decode by their YAML type, with 0x-prefixed 20-byte hex strings
// read as addresses. Mappings with a single key select the kind explicitly.
type PlanLoaderAdapter struct {
	projectRoot string
}

// NewPlanLoaderAdapter creates a new PlanLoaderAdapter
func NewPlanLoaderAdapter(cfg *config.RuntimeConfig) *PlanLoaderAdapter {
	return &PlanLoaderAdapter{projectRoot: cfg.ProjectRoot}
}

type planFile struct {
	Strategy string     `yaml:"strategy"`
	Steps    []stepFile `yaml:"steps"`
}

type stepFile struct {
	Contract  string             `yaml:"contract"`
	Name      string             `yaml:"name"`
	Strategy  string             `yaml:"strategy"`
	Artifact  string             `yaml:"artifact"`
	Args      []argNode          `yaml:"args"`
	Libraries map[string]argNode `yaml:"libraries"`
}

type argNode struct {
	arg models.ConstructorArg
}

// LoadPlan implements usecase.PlanLoader
func (p *PlanLoaderAdapter) LoadPlan(_ context.Context, path string) (*models.DeploymentPlan, error) {
	if path == "" {
		return nil, fmt.Errorf("no deployment plan configured")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.projectRoot, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deployment plan %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read deployment plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a YAML deployment plan.
func ParsePlan(data []byte) (*models.DeploymentPlan, error) {
	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &domain.PlanError{Reason: err.Error()}
	}

	plan := &models.DeploymentPlan{
		Strategy: models.DeploymentStrategy(file.Strategy),
		Steps:    make([]models.DeploymentStep, 0, len(file.Steps)),
	}
	for _, s := range file.Steps {
		step := models.DeploymentStep{
			ContractName: s.Contract,
			TrackingName: s.Name,
			Strategy:     models.DeploymentStrategy(s.Strategy),
			ArtifactPath: s.Artifact,
		}
		for _, a := range s.Args {
			step.Args = append(step.Args, a.arg)
		}
		if len(s.Libraries) > 0 {
			step.Libraries = make(map[string]models.ConstructorArg, len(s.Libraries))
			for lib, a := range s.Libraries {
				step.Libraries[lib] = a.arg
			}
		}
		plan.Steps = append(plan.Steps, step)
	}
	return plan, nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (a *argNode) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		arg, err := scalarArg(node)
		if err != nil {
			return err
		}
		a.arg = arg
		return nil

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: argument mapping must have exactly one key", node.Line)
		}
		kind, value := node.Content[0].Value, node.Content[1]
		arg, err := taggedArg(kind, value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		a.arg = arg
		return nil

	default:
		return fmt.Errorf("line %d: unsupported argument", node.Line)
	}
}

func scalarArg(node *yaml.Node) (models.ConstructorArg, error) {
	switch node.ShortTag() {
	case "!!int":
		return parseInteger(node.Value)
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return models.ConstructorArg{}, err
		}
		return models.BoolArg(b), nil
	case "!!str":
		if isAddress(node.Value) {
			return models.AddressArg(common.HexToAddress(node.Value)), nil
		}
		return models.StringArg(node.Value), nil
	default:
		return models.ConstructorArg{}, fmt.Errorf("line %d: unsupported argument type %s", node.Line, node.ShortTag())
	}
}

func taggedArg(kind string, value *yaml.Node) (models.ConstructorArg, error) {
	if value.Kind != yaml.ScalarNode {
		return models.ConstructorArg{}, fmt.Errorf("%s value must be a scalar", kind)
	}
	switch models.ArgKind(kind) {
	case models.ArgAddress:
		if !isAddress(value.Value) {
			return models.ConstructorArg{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, value.Value)
		}
		return models.AddressArg(common.HexToAddress(value.Value)), nil
	case models.ArgInteger, "int", "uint":
		return parseInteger(value.Value)
	case models.ArgString:
		return models.StringArg(value.Value), nil
	case models.ArgBytes:
		b, err := hexutil.Decode(value.Value)
		if err != nil {
			return models.ConstructorArg{}, fmt.Errorf("invalid bytes %q: %w", value.Value, err)
		}
		return models.BytesArg(b), nil
	case models.ArgBool:
		b, err := strconv.ParseBool(value.Value)
		if err != nil {
			return models.ConstructorArg{}, err
		}
		return models.BoolArg(b), nil
	case models.ArgRef:
		if value.Value == "" {
			return models.ConstructorArg{}, fmt.Errorf("ref needs a tracking name")
		}
		return models.RefArg(value.Value), nil
	case models.ArgSigner:
		return models.SignerArg(), nil
	default:
		return models.ConstructorArg{}, fmt.Errorf("unknown argument kind %q", kind)
	}
}

func parseInteger(s string) (models.ConstructorArg, error) {
	i, ok := new(big.Int).SetString(strings.ReplaceAll(s, "_", ""), 0)
	if !ok {
		return models.ConstructorArg{}, fmt.Errorf("invalid integer %q", s)
	}
	return models.IntegerArg(i), nil
}

func isAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// Ensure PlanLoaderAdapter implements PlanLoader
var _ usecase.PlanLoader = (*PlanLoaderAdapter)(nil)
