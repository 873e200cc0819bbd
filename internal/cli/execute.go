package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/config"
)

// builtins is the fixed, ordered table of internal commands. Discovery
// walks this table; there is no resolution of command types by name.
func builtins(app *App) []commands.Factory {
	return []commands.Factory{
		func() commands.Command { return &listCommand{app: app} },
		func() commands.Command { return &addCommand{app: app} },
		func() commands.Command { return &updateCommand{app: app} },
		func() commands.Command { return &rmCommand{app: app} },
		func() commands.Command { return &openCommand{app: app} },
		func() commands.Command { return &editCommand{app: app} },
		func() commands.Command { return &runCommand{app: app} },
		func() commands.Command { return &reindexCommand{app: app} },
		func() commands.Command { return &configCommand{app: app} },
		func() commands.Command { return &versionCommand{} },
	}
}

// NewFrontend builds the dispatch front end for app: the shared root
// parser, the internal command table, and external folio-* discovery.
func NewFrontend(app *App) *commands.Frontend {
	f := commands.NewFrontend(commands.Config{
		Program: "folio",
		Short:   "Folio - a plain-files document collection manager",
		Long: `Folio manages a library of document folders, each holding an info.yaml
of fields plus attached files, indexed for fast querying.

Subcommands named folio-<name> found in the scripts folder or on $PATH
are available as external commands.`,
		Internals:       builtins(app),
		Default:         "list",
		ScriptsDir:      app.Config.GetScriptsFolder(),
		PathList:        filepath.SplitList(os.Getenv("PATH")),
		ExternalTimeout: app.Config.External.Timeout(),
	})

	root := f.Root()
	root.PersistentFlags().StringVarP(&app.LibraryName, "library", "l", "", "Named library from config")
	root.PersistentFlags().StringVar(&app.LibraryPath, "library-path", "", "Explicit path to library directory")
	root.SilenceUsage = true

	return f
}

// Execute runs the CLI against os.Args.
//
// The config is loaded before any parsing happens because external command
// discovery (the scripts folder) depends on it. FOLIO_CONFIG overrides the
// default config location.
func Execute() error {
	var cfg *config.Config
	var err error
	if path := os.Getenv("FOLIO_CONFIG"); path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	app := NewApp(cfg)
	defer app.Close()

	return NewFrontend(app).Run(context.Background(), os.Args[1:])
}
