package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
)

type runCommand struct {
	app *App
}

func (c *runCommand) Name() string { return "run" }

func (c *runCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "run <command> [arg]...",
		Short: "Run an arbitrary command inside the library folder",
		Long: `Run a command with the library root as working directory, inheriting
the terminal. The exit status mirrors the child's.

Examples:
  folio run git status
  folio run du -sh .`,
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE:               c.run,
	}, nil
}

func (c *runCommand) run(cmd *cobra.Command, args []string) error {
	lib, err := c.app.Library()
	if err != nil {
		return err
	}

	child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	child.Dir = lib.Root()
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &commands.ExitError{Path: args[0], Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run %s: %w", args[0], err)
	}
	return nil
}
