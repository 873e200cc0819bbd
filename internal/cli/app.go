// Package cli implements the command-line interface.
package cli

import (
	"fmt"

	"github.com/folio-cli/folio/internal/config"
	"github.com/folio-cli/folio/internal/library"
)

// App carries the state shared by the internal commands: the loaded
// config and the resolved library. It is constructed once at process
// start and passed into every command; there is no package-level state.
type App struct {
	Config *config.Config

	// LibraryName and LibraryPath are bound to the root --library and
	// --library-path flags. An explicit path wins over a named library.
	LibraryName string
	LibraryPath string

	lib *library.Library
}

// NewApp returns an App bound to cfg.
func NewApp(cfg *config.Config) *App {
	return &App{Config: cfg}
}

// Library resolves and opens the active library on first use. Commands
// that never touch the library never pay for (or fail on) resolution.
func (a *App) Library() (*library.Library, error) {
	if a.lib != nil {
		return a.lib, nil
	}

	path := a.LibraryPath
	if path == "" {
		var err error
		path, err = a.Config.GetLibraryPath(a.LibraryName)
		if err != nil {
			return nil, fmt.Errorf(`%w

Either:
  1. Use --library <name> (from config)
  2. Use --library-path /path/to/library
  3. Set default_library in %s`, err, config.DefaultPath())
		}
	}

	lib, err := library.Open(path)
	if err != nil {
		return nil, err
	}
	a.lib = lib
	return lib, nil
}

// Close releases the App's library handle, if one was opened.
func (a *App) Close() {
	if a.lib != nil {
		a.lib.Close()
		a.lib = nil
	}
}
