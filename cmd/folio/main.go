// Package main is the entry point for the folio CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/folio-cli/folio/internal/cli"
	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/ui"
)

func main() {
	if err := cli.Execute(); err != nil {
		// External commands' exit codes are mirrored verbatim.
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}
