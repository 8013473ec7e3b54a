package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pearl-labs/pearl-deploy/internal/usecase"
	"github.com/samber/lo"
)

// PredictRenderer renders CREATE3 address predictions
type PredictRenderer struct {
	out io.Writer
}

// NewPredictRenderer creates a new predict renderer
func NewPredictRenderer(out io.Writer) *PredictRenderer {
	return &PredictRenderer{out: out}
}

// Render implements Renderer
func (r *PredictRenderer) Render(result *usecase.PredictAddressResult) error {
	if len(result.Addresses) == 0 {
		fmt.Fprintln(r.out, "No deterministic steps to predict")
		return nil
	}

	mode := "factory"
	if result.Offline {
		mode = "offline"
	}
	fmt.Fprintf(r.out, "%s\n", color.New(color.Bold).Sprintf("Predicted addresses (%s, %s)", result.Network, mode))
	fmt.Fprintf(r.out, "  %s %s\n", color.New(color.Faint).Sprint("Factory: "), result.Factory.Hex())
	fmt.Fprintf(r.out, "  %s %s\n\n", color.New(color.Faint).Sprint("Deployer:"), result.Account.Hex())

	header := table.Row{"NAME", "ADDRESS", "RECORDED"}
	if !result.Offline {
		header = append(header, "CODE")
	}

	t := newTable()
	t.AppendHeader(header)
	for _, p := range result.Addresses {
		row := table.Row{color.New(color.Bold).Sprint(p.Name), p.Address.Hex(), recordedLabel(p)}
		if p.Deployed != nil {
			row = append(row, lo.Ternary(*p.Deployed, color.GreenString("yes"), color.New(color.Faint).Sprint("no")))
		}
		t.AppendRow(row)
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func recordedLabel(p usecase.PredictedAddress) string {
	switch {
	case p.Recorded == nil:
		return color.New(color.Faint).Sprint("-")
	case *p.Recorded == p.Address:
		return color.GreenString("match")
	default:
		return color.YellowString("differs: %s", p.Recorded.Hex())
	}
}
