package main

import (
	"fmt"
	"os"

	"github.com/pearl-labs/pearl-deploy/internal/cli"
	"github.com/pearl-labs/pearl-deploy/internal/cli/render"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
