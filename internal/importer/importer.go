// Package importer defines the pluggable sources that can contribute field
// data and candidate files to a document update.
package importer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/folio-cli/folio/internal/document"
)

// ErrNotApplicable is returned by MatchData when an importer cannot derive
// a source URI from the given document.
var ErrNotApplicable = errors.New("importer not applicable to this document")

// Context accumulates what an importer fetched: field data and candidate
// files for attachment.
type Context struct {
	Data  map[string]any
	Files []string
}

// NewContext returns an empty fetch context.
func NewContext() *Context {
	return &Context{Data: make(map[string]any)}
}

// Empty reports whether the context carries neither data nor files.
func (c *Context) Empty() bool {
	return c == nil || (len(c.Data) == 0 && len(c.Files) == 0)
}

// Importer is a single source of document data. Fetch populates the
// importer's context; it is called at most once per instance.
type Importer interface {
	Name() string
	Fetch(ctx context.Context) error
	Ctx() *Context
}

// Factory builds an importer bound to a source URI.
type Factory func(uri string) Importer

// Matcher, when implemented alongside a Factory, derives a source URI from
// an existing document so the importer can run without an explicit --from.
type Matcher func(doc *document.Document) (string, error)

type registration struct {
	factory Factory
	matcher Matcher
}

// registry is the static table of known importers, populated at package
// init time. There is no dynamic lookup by module path.
var registry = map[string]registration{}

// Register adds an importer factory under name. matcher may be nil for
// importers that only work with an explicit URI.
func Register(name string, factory Factory, matcher Matcher) {
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("importer %q registered twice", name))
	}
	registry[name] = registration{factory: factory, matcher: matcher}
}

// Available returns the registered importer names, sorted.
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named importer for uri.
func New(name, uri string) (Importer, error) {
	reg, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown importer %q (available: %v)", name, Available())
	}
	return reg.factory(uri), nil
}

// MatchData asks the named importer to derive a source from doc. It
// returns ErrNotApplicable when the importer declares no interest.
func MatchData(name string, doc *document.Document) (Importer, error) {
	reg, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown importer %q", name)
	}
	if reg.matcher == nil {
		return nil, ErrNotApplicable
	}
	uri, err := reg.matcher(doc)
	if err != nil {
		return nil, err
	}
	return reg.factory(uri), nil
}
