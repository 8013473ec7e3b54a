package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeployRenderer renders the summary of a deployment run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render implements Renderer
func (r *DeployRenderer) Render(result *usecase.RunDeploymentResult) error {
	if result.Halted {
		tx := result.Nonce.FillerTx
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf(
			"Stuck transaction on %s: sent filler %s with nonce %d.", result.Network, tx.Hash.Hex(), tx.Nonce)))
		fmt.Fprintln(r.out, "   No step was run. Re-run once the filler is mined.")
		return nil
	}

	deployed, reused := lo.FilterReject(result.Steps, func(s usecase.StepResult, _ int) bool {
		return s.Outcome.IsNewlyDeployed
	})

	r.renderSteps(fmt.Sprintf("Deployment Summary (%s)", result.Network), result.Steps)

	for _, step := range deployed {
		if step.LogErr != nil {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Verification command for %s was not recorded: %v", step.Step.Name(), step.LogErr)))
		}
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d deployed, %d unchanged", len(deployed), len(reused))))
	return nil
}

// RenderPartial lists the steps that completed before a run failed.
// Their addresses are already in the registry.
func (r *DeployRenderer) RenderPartial(result *usecase.RunDeploymentResult) error {
	if result == nil || len(result.Steps) == 0 {
		return nil
	}
	r.renderSteps(fmt.Sprintf("Completed before failure (%s)", result.Network), result.Steps)
	return nil
}

func (r *DeployRenderer) renderSteps(title string, steps []usecase.StepResult) {
	fmt.Fprintf(r.out, "\n%s\n\n", color.New(color.Bold).Sprint(title))

	t := newTable()
	t.AppendHeader(table.Row{"NAME", "ADDRESS", "STRATEGY", "STATUS"})
	for _, step := range steps {
		status := color.New(color.Faint).Sprint("unchanged")
		if step.Outcome.IsNewlyDeployed {
			status = color.GreenString("deployed")
		}
		t.AppendRow(table.Row{
			color.New(color.Bold).Sprint(step.Step.Name()),
			step.Outcome.Address.Hex(),
			strategyLabel(step.Outcome.Strategy),
			status,
		})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)
}

// strategyLabel is the display name of a strategy
func strategyLabel(s models.DeploymentStrategy) string {
	return cases.Title(language.English).String(string(s))
}
