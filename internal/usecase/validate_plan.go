package usecase

import (
	"fmt"

	"github.com/pearl-labs/pearl-deploy/internal/domain"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

// ValidatePlan checks a plan against the registry it will run on.
// Tracking names must be unique and every ref must name an earlier step
// or, when no step of the plan carries that name, an entry already present
// in the registry.
func ValidatePlan(plan *models.DeploymentPlan, registry *models.AddressRegistry) error {
	if plan == nil || len(plan.Steps) == 0 {
		return &domain.PlanError{Reason: "plan has no steps"}
	}
	if plan.Strategy != "" && !plan.Strategy.Valid() {
		return &domain.PlanError{Reason: fmt.Sprintf("unknown strategy %q", plan.Strategy)}
	}

	planned := make(map[string]bool, len(plan.Steps))
	for _, step := range plan.Steps {
		planned[step.Name()] = true
	}

	seen := make(map[string]bool, len(plan.Steps))
	for i, step := range plan.Steps {
		name := step.Name()
		if step.ContractName == "" && step.ArtifactPath == "" {
			return &domain.PlanError{Step: fmt.Sprintf("#%d", i), Reason: "contract name or artifact is required"}
		}
		if name == "" {
			return &domain.PlanError{Step: fmt.Sprintf("#%d", i), Reason: "tracking name is required with an inline artifact"}
		}
		if name == models.SaltKey || name == models.FactoryKey {
			return &domain.PlanError{Step: name, Reason: "tracking name is reserved"}
		}
		if seen[name] {
			return &domain.PlanError{Step: name, Reason: "duplicate tracking name"}
		}
		if step.Strategy != "" && !step.Strategy.Valid() {
			return &domain.PlanError{Step: name, Reason: fmt.Sprintf("unknown strategy %q", step.Strategy)}
		}

		check := func(arg models.ConstructorArg, what string) error {
			if arg.Kind != models.ArgRef {
				return nil
			}
			if arg.Ref == name {
				return &domain.PlanError{Step: name, Reason: fmt.Sprintf("%s refers to the step itself", what)}
			}
			if seen[arg.Ref] {
				return nil
			}
			if planned[arg.Ref] {
				return &domain.PlanError{Step: name, Reason: fmt.Sprintf("%s refers to later step %q", what, arg.Ref)}
			}
			if _, ok := registry.Address(arg.Ref); ok {
				return nil
			}
			return &domain.PlanError{Step: name, Reason: fmt.Sprintf("%s refers to unknown %q", what, arg.Ref)}
		}
		for j, arg := range step.Args {
			if err := check(arg, fmt.Sprintf("argument %d", j)); err != nil {
				return err
			}
		}
		for lib, link := range step.Libraries {
			if link.Kind != models.ArgAddress && link.Kind != models.ArgRef {
				return &domain.PlanError{Step: name, Reason: fmt.Sprintf("library %s must be an address or a ref", lib)}
			}
			if err := check(link, "library "+lib); err != nil {
				return err
			}
		}
		seen[name] = true
	}
	return nil
}
