package library

import (
	"path/filepath"
	"testing"

	"github.com/folio-cli/folio/internal/document"
)

func newDoc(t *testing.T, root, folder string, fields map[string]any) *document.Document {
	t.Helper()
	doc := document.New(filepath.Join(root, folder))
	for k, v := range fields {
		doc.Set(k, v)
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("save %s: %v", folder, err)
	}
	return doc
}

func TestUpdateAndQuery(t *testing.T) {
	root := t.TempDir()
	lib, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer lib.Close()

	einstein := newDoc(t, root, "einstein-1905", map[string]any{
		"ref": "einstein-1905", "author": "Albert Einstein", "title": "Electrodynamics",
	})
	dyson := newDoc(t, root, "dyson-1949", map[string]any{
		"ref": "dyson-1949", "author": "Freeman Dyson", "title": "The S Matrix",
	})

	for _, doc := range []*document.Document{einstein, dyson} {
		if err := lib.Update(doc); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	t.Run("match by author", func(t *testing.T) {
		docs, err := lib.Query("dyson")
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(docs) != 1 || docs[0].Ref() != "dyson-1949" {
			t.Errorf("expected [dyson-1949], got %d docs", len(docs))
		}
	})

	t.Run("match by year", func(t *testing.T) {
		sr := newDoc(t, root, "einstein-sr", map[string]any{
			"ref": "einstein-sr", "year": 1905,
		})
		if err := lib.Update(sr); err != nil {
			t.Fatalf("update: %v", err)
		}
		docs, err := lib.Query("1905")
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(docs) != 1 || docs[0].Ref() != "einstein-sr" {
			t.Errorf("query by year matched %d docs, want [einstein-sr]", len(docs))
		}
		if err := lib.Remove(sr.Folder()); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("dot matches all", func(t *testing.T) {
		docs, err := lib.Query(".")
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("expected 2 docs, got %d", len(docs))
		}
	})

	t.Run("no match", func(t *testing.T) {
		docs, err := lib.Query("feynman")
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("expected no docs, got %d", len(docs))
		}
	})
}

func TestUpdateReflectsNewFields(t *testing.T) {
	root := t.TempDir()
	lib, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer lib.Close()

	doc := newDoc(t, root, "paper", map[string]any{"ref": "paper", "tags": "draft"})
	if err := lib.Update(doc); err != nil {
		t.Fatalf("update: %v", err)
	}

	doc.Set("tags", "published")
	if err := doc.Save(); err != nil {
		t.Fatal(err)
	}
	if err := lib.Update(doc); err != nil {
		t.Fatalf("second update: %v", err)
	}

	docs, err := lib.Query("published")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 doc tagged published, got %d", len(docs))
	}
	if got := docs[0].GetString("tags"); got != "published" {
		t.Errorf("tags = %q", got)
	}
}

func TestReindex(t *testing.T) {
	root := t.TempDir()
	lib, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer lib.Close()

	newDoc(t, root, "a", map[string]any{"ref": "a"})
	newDoc(t, root, filepath.Join("nested", "b"), map[string]any{"ref": "b"})

	count, err := lib.Reindex()
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if count != 2 {
		t.Errorf("indexed %d documents, want 2", count)
	}

	docs, err := lib.Query("")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 docs after reindex, got %d", len(docs))
	}
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	lib, err := Open(root)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer lib.Close()

	doc := newDoc(t, root, "a", map[string]any{"ref": "a"})
	if err := lib.Update(doc); err != nil {
		t.Fatal(err)
	}
	if err := lib.Remove(doc.Folder()); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := lib.Remove(doc.Folder()); err == nil {
		t.Error("expected error removing unindexed folder")
	}
}

func TestOpenMissingRoot(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error opening missing library root")
	}
}
