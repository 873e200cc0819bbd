package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"
)

// ExitError carries an external command's non-zero exit status so the
// process can mirror it.
type ExitError struct {
	Path string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Path, e.Code)
}

// External wraps an executable found on the search path as a Command.
// Execution spawns the executable with the forwarded argument vector and
// the parent's standard streams.
type External struct {
	name    string
	path    string
	timeout time.Duration
}

// NewExternal binds an executable path under the given public name.
func NewExternal(name, path string, timeout time.Duration) *External {
	return &External{name: name, path: path, timeout: timeout}
}

// Name returns the command's public name (executable name minus prefix).
func (e *External) Name() string {
	return e.name
}

// Path returns the executable's path.
func (e *External) Path() string {
	return e.path
}

// Init binds a pass-through subparser: flags are not parsed here, the
// whole argument vector is forwarded to the child.
func (e *External) Init(f *Frontend) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:                e.name,
		Short:              fmt.Sprintf("External command (%s)", e.path),
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.Exec(cmd.Context(), args)
		},
	}
	return cmd, nil
}

// Exec spawns the executable with args appended, inheriting the parent's
// standard streams, and waits for it. A configured timeout bounds the wait
// and kills the child on expiry. The child's exit status is reported via
// ExitError so the caller can mirror it.
func (e *External) Exec(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("external command %s timed out after %s", e.path, e.timeout)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Path: e.path, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to run external command %s: %w", e.path, err)
}
