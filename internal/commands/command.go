// Package commands implements the command registry and dispatch front end:
// discovery of built-in and external subcommands, the single shared root
// parser they all bind onto, and the build-exactly-once lifecycle.
package commands

import "github.com/spf13/cobra"

// Kind distinguishes in-process commands from external executables.
type Kind string

const (
	KindInternal Kind = "internal"
	KindExternal Kind = "external"
)

// Command is one invocable subcommand. Init binds the command's subparser
// onto the frontend's shared root command and returns it; the registry
// calls Init exactly once, during build.
type Command interface {
	Name() string
	Init(f *Frontend) (*cobra.Command, error)
}

// Factory constructs an internal command. Internal commands are declared
// in a fixed, ordered table of factories; there is no resolution by name
// at runtime.
type Factory func() Command
