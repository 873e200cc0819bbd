package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrAlreadyBuilt indicates a second registry build in one process. This is
// programmer misuse, not user input, and callers should treat it as fatal.
var ErrAlreadyBuilt = errors.New("command registry already built")

// entry pairs a Command with its bound subparser. The parser handle is
// bound during build, when the command's Init runs.
type entry struct {
	command Command
	kind    Kind
	cobra   *cobra.Command
}

// Registry is the table of available commands, keyed by name. It is owned
// by a Frontend; nothing else mutates it.
type Registry struct {
	built   bool
	entries map[string]*entry
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Built reports whether the registry has been built.
func (r *Registry) Built() bool {
	return r.built
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (Command, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	return e.command, nil
}

// Kind returns the kind of the named command.
func (r *Registry) Kind(name string) (Kind, error) {
	e, ok := r.entries[name]
	if !ok {
		return "", fmt.Errorf("unknown command %q", name)
	}
	return e.kind, nil
}

// handle returns the bound parser handle for name, or nil.
func (r *Registry) handle(name string) *cobra.Command {
	if e, ok := r.entries[name]; ok {
		return e.cobra
	}
	return nil
}

// Names returns the registered command names in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// addInternal registers an internal command. A duplicate internal name
// means a command was initialized twice; that breaks the registry, not
// just the command.
func (r *Registry) addInternal(cmd Command, handle *cobra.Command) error {
	name := cmd.Name()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("command %q initialized twice", name)
	}
	r.entries[name] = &entry{command: cmd, kind: KindInternal, cobra: handle}
	return nil
}

// addExternal registers an external command unless an internal command
// already owns the name. Among externals, the last one scanned wins.
func (r *Registry) addExternal(cmd Command, handle *cobra.Command) bool {
	name := cmd.Name()
	if existing, ok := r.entries[name]; ok && existing.kind == KindInternal {
		return false
	}
	r.entries[name] = &entry{command: cmd, kind: KindExternal, cobra: handle}
	return true
}
