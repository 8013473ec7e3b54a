package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrRegistryMissing is returned when a required registry entry is absent
	ErrRegistryMissing = errors.New("registry entry missing")

	// ErrTransport is returned when a call to the network client fails
	ErrTransport = errors.New("network transport error")

	// ErrTransactionFailed is returned when a transaction reverted or was dropped
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrInvalidArgument is returned when constructor arguments don't fit the ABI
	ErrInvalidArgument = errors.New("invalid constructor argument")

	// ErrInvalidPlan is returned when a deployment plan is malformed
	ErrInvalidPlan = errors.New("invalid deployment plan")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when the node reports an unexpected chain ID
	ErrNetworkMismatch = errors.New("network mismatch")
)

// RegistryMissingError reports a registry key that must exist before the run can proceed.
type RegistryMissingError struct {
	Network string
	Key     string
}

func (e *RegistryMissingError) Error() string {
	return fmt.Sprintf("registry for network %q has no %q entry", e.Network, e.Key)
}

func (e *RegistryMissingError) Unwrap() error { return ErrRegistryMissing }

// TransportError wraps a failed RPC call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err, or returns nil when err is nil.
func NewTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}

// TransactionFailedError reports a transaction that reverted, or whose effect is not observable.
type TransactionFailedError struct {
	TxHash common.Hash
	Reason string
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.TxHash.Hex(), e.Reason)
}

func (e *TransactionFailedError) Unwrap() error { return ErrTransactionFailed }

// ArgumentError reports constructor arguments that do not match the constructor ABI.
type ArgumentError struct {
	Contract string
	Index    int
	Reason   string
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s constructor: %s", e.Contract, e.Reason)
	}
	return fmt.Sprintf("%s constructor argument %d: %s", e.Contract, e.Index, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// PlanError reports an invalid deployment plan.
type PlanError struct {
	Step   string
	Reason string
}

func (e *PlanError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("invalid deployment plan: %s", e.Reason)
	}
	return fmt.Sprintf("invalid deployment plan: step %s: %s", e.Step, e.Reason)
}

func (e *PlanError) Unwrap() error { return ErrInvalidPlan }

// StepAction names what a deployment step was doing when it failed
type StepAction string

const (
	ActionResolve   StepAction = "resolve arguments"
	ActionArtifact  StepAction = "load artifact"
	ActionEncode    StepAction = "encode init code"
	ActionPredict   StepAction = "predict address"
	ActionCheckCode StepAction = "check code"
	ActionDeploy    StepAction = "deploy"
	ActionPersist   StepAction = "persist registry"
)

// StepError wraps the failure of a single deployment step.
type StepError struct {
	Step   string
	Action StepAction
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %s: %v", e.Step, e.Action, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
