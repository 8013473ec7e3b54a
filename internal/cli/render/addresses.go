package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pearl-labs/pearl-deploy/internal/domain/models"
)

// AddressesRenderer renders the address registry of a network
type AddressesRenderer struct {
	out io.Writer
}

// NewAddressesRenderer creates a new addresses renderer
func NewAddressesRenderer(out io.Writer) *AddressesRenderer {
	return &AddressesRenderer{out: out}
}

// Render implements Renderer
func (r *AddressesRenderer) Render(registry *models.AddressRegistry) error {
	salt, hasSalt := registry.Salt()
	factory, hasFactory := registry.Factory()
	names := registry.Names()

	if !hasSalt && !hasFactory && len(names) == 0 {
		fmt.Fprintf(r.out, "No addresses recorded for network %s\n", registry.Network)
		return nil
	}

	fmt.Fprintf(r.out, "%s\n\n", color.New(color.Bold).Sprintf("Addresses (%s)", registry.Network))
	if hasSalt {
		fmt.Fprintf(r.out, "  %s %s\n", color.New(color.Faint).Sprint("Salt:   "), salt)
	}
	if hasFactory {
		fmt.Fprintf(r.out, "  %s %s\n", color.New(color.Faint).Sprint("Factory:"), factory.Hex())
	}
	if len(names) == 0 {
		return nil
	}
	fmt.Fprintln(r.out)

	t := newTable()
	t.AppendHeader(table.Row{"NAME", "ADDRESS"})
	for _, name := range names {
		value, _ := registry.Get(name)
		t.AppendRow(table.Row{color.New(color.FgGreen, color.Bold).Sprint(name), value})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
