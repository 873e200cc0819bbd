package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Config configures a Frontend.
type Config struct {
	// Program is the top-level command name (e.g. "folio").
	Program string

	// Short and Long describe the program in --help output.
	Short string
	Long  string

	// Internals is the fixed, ordered table of built-in command factories.
	Internals []Factory

	// Default is the command run when no subcommand is given. Empty means
	// cobra's usage output.
	Default string

	// ScriptsDir is scanned for external commands ahead of PathList.
	ScriptsDir string

	// PathList holds the executable search path directories, in scan
	// order. Callers typically pass filepath.SplitList(os.Getenv("PATH")).
	PathList []string

	// ExternalPrefix is the filename prefix marking external commands.
	ExternalPrefix string

	// ExternalTimeout bounds how long a spawned external command may run.
	// Zero disables the timeout.
	ExternalTimeout time.Duration
}

// Frontend owns the single root parser and the command registry, and
// routes parsed input to the selected command. One Frontend is constructed
// per process run; it cannot be rebuilt.
type Frontend struct {
	cfg      Config
	root     *cobra.Command
	registry *Registry
}

// NewFrontend returns an unbuilt frontend. The root parser and registry
// are created lazily; Build (or the first Run) populates them.
func NewFrontend(cfg Config) *Frontend {
	if cfg.ExternalPrefix == "" {
		cfg.ExternalPrefix = cfg.Program + "-"
	}
	return &Frontend{cfg: cfg, registry: newRegistry()}
}

// Registry returns the frontend's command registry.
func (f *Frontend) Registry() *Registry {
	return f.registry
}

// Root lazily constructs the shared root command. Every Command binds its
// subparser onto the same instance; repeated calls return that instance.
func (f *Frontend) Root() *cobra.Command {
	if f.root == nil {
		f.root = &cobra.Command{
			Use:           f.cfg.Program,
			Short:         f.cfg.Short,
			Long:          f.cfg.Long,
			SilenceErrors: true,
			// Unmatched leading arguments fall through to the default
			// command rather than failing as unknown subcommands.
			Args: cobra.ArbitraryArgs,
			RunE: f.runDefault,
		}
	}
	return f.root
}

// Build discovers internal and external commands and publishes the
// registry. A second build attempt fails with ErrAlreadyBuilt.
func (f *Frontend) Build() error {
	if f.registry.built {
		return ErrAlreadyBuilt
	}

	if err := f.discoverInternal(); err != nil {
		return err
	}

	// Shell completion is wired once, as part of the build, so external
	// commands can never shadow it.
	f.Root().InitDefaultCompletionCmd()

	f.discoverExternal()

	f.registry.built = true
	return nil
}

// Run ensures the registry is built, parses argv against the root parser,
// and dispatches to the selected command. With no subcommand the default
// command runs.
func (f *Frontend) Run(ctx context.Context, argv []string) error {
	if !f.registry.built {
		if err := f.Build(); err != nil {
			return err
		}
	}
	root := f.Root()
	root.SetArgs(argv)
	return root.ExecuteContext(ctx)
}

// runDefault re-dispatches bare invocations through the default command,
// so its own flag and argument parsing applies: "folio <query>" behaves
// like "folio <default> <query>".
func (f *Frontend) runDefault(cmd *cobra.Command, args []string) error {
	if f.cfg.Default == "" {
		if len(args) > 0 {
			return fmt.Errorf("unknown command %q", args[0])
		}
		return cmd.Usage()
	}
	if f.registry.handle(f.cfg.Default) == nil {
		return fmt.Errorf("default command %q is not registered", f.cfg.Default)
	}
	root := f.Root()
	root.SetArgs(append([]string{f.cfg.Default}, args...))
	return root.ExecuteContext(cmd.Context())
}

// discoverInternal initializes every built-in command in table order and
// binds it onto the root parser. Failures propagate; a broken built-in is
// a broken binary.
func (f *Frontend) discoverInternal() error {
	for _, factory := range f.cfg.Internals {
		cmd := factory()
		handle, err := cmd.Init(f)
		if err != nil {
			return fmt.Errorf("initialize command %q: %w", cmd.Name(), err)
		}
		if err := f.registry.addInternal(cmd, handle); err != nil {
			return err
		}
		f.Root().AddCommand(handle)
	}
	return nil
}

// discoverExternal scans the scripts folder and then every search-path
// directory for executables named <prefix><name>. Missing or unreadable
// directories are skipped silently. When the same name appears in several
// directories the last one scanned wins; internal names always win.
func (f *Frontend) discoverExternal() {
	dirs := make([]string, 0, len(f.cfg.PathList)+1)
	if f.cfg.ScriptsDir != "" {
		dirs = append(dirs, f.cfg.ScriptsDir)
	}
	dirs = append(dirs, f.cfg.PathList...)

	found := make(map[string]string)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name, ok := f.externalName(entry.Name())
			if !ok {
				continue
			}
			info, err := entry.Info()
			if err != nil || !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
				continue
			}
			found[name] = filepath.Join(dir, entry.Name())
		}
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !f.claimable(name) {
			continue
		}
		ext := NewExternal(name, found[name], f.cfg.ExternalTimeout)
		handle, err := ext.Init(f)
		if err != nil {
			continue
		}
		if f.registry.addExternal(ext, handle) {
			f.Root().AddCommand(handle)
		}
	}
}

// claimable reports whether name is free for an external command: not an
// internal command and not a root-level builtin like help or completion.
func (f *Frontend) claimable(name string) bool {
	if kind, err := f.registry.Kind(name); err == nil && kind == KindInternal {
		return false
	}
	for _, existing := range f.Root().Commands() {
		if existing.Name() == name {
			return false
		}
	}
	return name != "help"
}

func (f *Frontend) externalName(filename string) (string, bool) {
	if !strings.HasPrefix(filename, f.cfg.ExternalPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(filename, f.cfg.ExternalPrefix)
	if name == "" {
		return "", false
	}
	return name, true
}
