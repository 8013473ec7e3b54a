package usecase

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// ResolveArgs replaces ref and signer arguments with concrete addresses.
func ResolveArgs(args []models.ConstructorArg, registry *models.AddressRegistry, signer common.Address) ([]models.ConstructorArg, error) {
	resolved := make([]models.ConstructorArg, len(args))
	for i, arg := range args {
		r, err := resolveArg(arg, registry, signer)
		if err != nil {
			return nil, err
		}
		resolved[i] = r
	}
	return resolved, nil
}

// ResolveLibraries turns library links into addresses.
func ResolveLibraries(libs map[string]models.ConstructorArg, registry *models.AddressRegistry, signer common.Address) (map[string]common.Address, error) {
	out := make(map[string]common.Address, len(libs))
	for name, link := range libs {
		r, err := resolveArg(link, registry, signer)
		if err != nil {
			return nil, err
		}
		if r.Kind != models.ArgAddress {
			return nil, fmt.Errorf("library %s must be linked to an address, got %s", name, r.Kind)
		}
		out[name] = r.Address
	}
	return out, nil
}

func resolveArg(arg models.ConstructorArg, registry *models.AddressRegistry, signer common.Address) (models.ConstructorArg, error) {
	switch arg.Kind {
	case models.ArgRef:
		addr, ok := registry.Address(arg.Ref)
		if !ok {
			return models.ConstructorArg{}, &domain.RegistryMissingError{Network: registry.Network, Key: arg.Ref}
		}
		return models.AddressArg(addr), nil
	case models.ArgSigner:
		return models.AddressArg(signer), nil
	default:
		return arg, nil
	}
}

// EncodeConstructorArgs validates resolved arguments against the constructor ABI
// and returns their ABI encoding, to be appended to the creation code.
func EncodeConstructorArgs(contract string, parsed *abi.ABI, args []models.ConstructorArg) ([]byte, error) {
	inputs := parsed.Constructor.Inputs
	if len(inputs) != len(args) {
		return nil, &domain.ArgumentError{
			Contract: contract,
			Index:    -1,
			Reason:   fmt.Sprintf("expected %d arguments, got %d", len(inputs), len(args)),
		}
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	values := make([]interface{}, len(args))
	for i, arg := range args {
		v, err := toABIValue(inputs[i].Type, arg)
		if err != nil {
			return nil, &domain.ArgumentError{Contract: contract, Index: i, Reason: err.Error()}
		}
		values[i] = v
	}

	packed, err := inputs.Pack(values...)
	if err != nil {
		return nil, &domain.ArgumentError{Contract: contract, Index: -1, Reason: err.Error()}
	}
	return packed, nil
}

func toABIValue(t abi.Type, arg models.ConstructorArg) (interface{}, error) {
	mismatch := func() error {
		return fmt.Errorf("cannot use %s value for parameter of type %s", arg.Kind, t.String())
	}

	switch t.T {
	case abi.AddressTy:
		if arg.Kind != models.ArgAddress {
			return nil, mismatch()
		}
		return arg.Address, nil

	case abi.IntTy, abi.UintTy:
		if arg.Kind != models.ArgInteger {
			return nil, mismatch()
		}
		i := arg.Integer
		if i == nil {
			i = new(big.Int)
		}
		signed := t.T == abi.IntTy
		if !fitsInteger(i, t.Size, signed) {
			return nil, fmt.Errorf("value %s out of range for %s", i, t.String())
		}
		typ := t.GetType()
		if typ == bigIntType {
			return new(big.Int).Set(i), nil
		}
		v := reflect.New(typ).Elem()
		if signed {
			v.SetInt(i.Int64())
		} else {
			v.SetUint(i.Uint64())
		}
		return v.Interface(), nil

	case abi.StringTy:
		if arg.Kind != models.ArgString {
			return nil, mismatch()
		}
		return arg.Str, nil

	case abi.BoolTy:
		if arg.Kind != models.ArgBool {
			return nil, mismatch()
		}
		return arg.Bool, nil

	case abi.BytesTy:
		if arg.Kind != models.ArgBytes {
			return nil, mismatch()
		}
		return arg.Bytes, nil

	case abi.FixedBytesTy:
		if arg.Kind != models.ArgBytes {
			return nil, mismatch()
		}
		if len(arg.Bytes) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(arg.Bytes))
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(arg.Bytes))
		return v.Interface(), nil

	default:
		return nil, fmt.Errorf("unsupported parameter type %s", t.String())
	}
}

func fitsInteger(i *big.Int, bits int, signed bool) bool {
	if signed {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		return i.Cmp(new(big.Int).Neg(limit)) >= 0 && i.Cmp(limit) < 0
	}
	return i.Sign() >= 0 && i.BitLen() <= bits
}
