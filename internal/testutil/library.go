// Package testutil provides helpers for tests that need a populated
// library on disk.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/folio-cli/folio/internal/config"
	"github.com/folio-cli/folio/internal/document"
	"github.com/folio-cli/folio/internal/library"
)

// TestLibrary is a temporary library rooted in t.TempDir().
type TestLibrary struct {
	t    *testing.T
	Root string
	Lib  *library.Library
}

// NewLibrary creates an empty library for the test.
func NewLibrary(t *testing.T) *TestLibrary {
	t.Helper()
	root := t.TempDir()
	lib, err := library.Open(root)
	if err != nil {
		t.Fatalf("open test library: %v", err)
	}
	t.Cleanup(func() { lib.Close() })
	return &TestLibrary{t: t, Root: root, Lib: lib}
}

// Config returns a config whose default library is this one.
func (l *TestLibrary) Config() *config.Config {
	return &config.Config{
		DefaultLibrary: "test",
		Libraries:      map[string]string{"test": l.Root},
	}
}

// AddDocument creates, saves, and indexes a document folder.
func (l *TestLibrary) AddDocument(folder string, fields map[string]any) *document.Document {
	l.t.Helper()
	doc := document.New(filepath.Join(l.Root, folder))
	for k, v := range fields {
		doc.Set(k, v)
	}
	if err := doc.Save(); err != nil {
		l.t.Fatalf("save document %s: %v", folder, err)
	}
	if err := l.Lib.Update(doc); err != nil {
		l.t.Fatalf("index document %s: %v", folder, err)
	}
	return doc
}

// Reload reads a document folder back from disk.
func (l *TestLibrary) Reload(folder string) *document.Document {
	l.t.Helper()
	doc, err := document.FromFolder(filepath.Join(l.Root, folder))
	if err != nil {
		l.t.Fatalf("reload document %s: %v", folder, err)
	}
	return doc
}

// Ctx returns a background context for CLI runs.
func (l *TestLibrary) Ctx() context.Context {
	return context.Background()
}
