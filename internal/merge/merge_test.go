package merge

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/folio-cli/folio/internal/document"
	"github.com/folio-cli/folio/internal/importer"
)

// fakeStore records index updates.
type fakeStore struct {
	updated []*document.Document
	err     error
}

func (s *fakeStore) Update(doc *document.Document) error {
	if s.err != nil {
		return s.err
	}
	s.updated = append(s.updated, doc)
	return nil
}

// scriptedPrompter answers Confirm with a fixed value and ChooseValue from
// a per-key script.
type scriptedPrompter struct {
	confirm bool
	choices map[string]struct {
		value any
		keep  bool
	}
}

func (p *scriptedPrompter) Confirm(string) bool { return p.confirm }

func (p *scriptedPrompter) ChooseValue(key string, existing, incoming any, source string) (any, bool) {
	if c, ok := p.choices[key]; ok {
		return c.value, c.keep
	}
	return incoming, true
}

// stubImporter is a canned importer for workflow tests.
type stubImporter struct {
	name     string
	ctx      *importer.Context
	fetchErr error
}

func (s *stubImporter) Name() string { return s.name }

func (s *stubImporter) Ctx() *importer.Context { return s.ctx }

func (s *stubImporter) Fetch(context.Context) error { return s.fetchErr }

func testDoc(t *testing.T, fields map[string]any) *document.Document {
	t.Helper()
	doc := document.New(filepath.Join(t.TempDir(), "doc"))
	for k, v := range fields {
		doc.Set(k, v)
	}
	if err := doc.Save(); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestSetPreservesRef(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "einstein-1905", "author": "Einstein"})
	store := &fakeStore{}

	var log bytes.Buffer
	w := New(doc, Options{
		Sets: []KV{{Key: "tags", Value: "foo bar"}, {Key: "ref", Value: "evil"}},
		Log:  &log,
	})
	if err := w.Run(context.Background(), store); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := doc.GetString("tags"); got != "foo bar" {
		t.Errorf("tags = %q, want %q", got, "foo bar")
	}
	if got := doc.Ref(); got != "einstein-1905" {
		t.Errorf("ref = %q, must be unchanged", got)
	}
	if !strings.Contains(log.String(), "ref") {
		t.Errorf("expected a warning about the ignored ref directive, log: %q", log.String())
	}
	if len(store.updated) != 1 {
		t.Errorf("expected one index update, got %d", len(store.updated))
	}
}

func TestSetExpandsPlaceholders(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "tags": "classics"})

	w := New(doc, Options{Sets: []KV{{Key: "tags", Value: "{doc[tags]} physics"}}})
	if err := w.Run(context.Background(), &fakeStore{}); err != nil {
		t.Fatal(err)
	}
	if got := doc.GetString("tags"); got != "classics physics" {
		t.Errorf("tags = %q", got)
	}
}

func TestDeleteMissingKeyIsNonFatal(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "author": "Einstein"})
	before := doc.Data()

	var log bytes.Buffer
	w := New(doc, Options{Deletes: []string{"nonexistent_field"}, Log: &log})
	if err := w.Run(context.Background(), &fakeStore{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(log.String(), "nonexistent_field") {
		t.Errorf("missing key should be reported, log: %q", log.String())
	}
	if !reflect.DeepEqual(doc.Data(), before) {
		t.Errorf("document changed: %v -> %v", before, doc.Data())
	}
}

func TestDeleteRemovesKeyFromDocument(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "note": "temp"})

	w := New(doc, Options{Deletes: []string{"note"}})
	if err := w.Run(context.Background(), &fakeStore{}); err != nil {
		t.Fatal(err)
	}

	if doc.Has("note") {
		t.Error("note should be deleted from the document")
	}
	reloaded, err := document.FromFolder(doc.Folder())
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Has("note") {
		t.Error("note should be deleted from the persisted document")
	}
}

func TestInteractiveDeleteDeclined(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "note": "keep me"})

	w := New(doc, Options{
		Interactive: true,
		Deletes:     []string{"note"},
		Prompter:    &scriptedPrompter{confirm: false},
	})
	if err := w.Run(context.Background(), &fakeStore{}); err != nil {
		t.Fatal(err)
	}
	if !doc.Has("note") {
		t.Error("declined delete must leave the key in place")
	}
}

func TestForceSkipsDeleteConfirmation(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "note": "x"})

	w := New(doc, Options{
		Interactive: true,
		Force:       true,
		Deletes:     []string{"note"},
		Prompter:    &scriptedPrompter{confirm: false},
	})
	if err := w.Run(context.Background(), &fakeStore{}); err != nil {
		t.Fatal(err)
	}
	if doc.Has("note") {
		t.Error("--force must delete without asking")
	}
}

func TestMergeIncomingWinsNonInteractive(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "year": 1905})
	w := New(doc, Options{})

	ictx := importer.NewContext()
	ictx.Data = map[string]any{"year": 1906, "publisher": "Annalen"}
	w.Merge(&stubImporter{name: "stub", ctx: ictx})

	if w.Context().Data["year"] != 1906 {
		t.Errorf("year = %v, incoming should win", w.Context().Data["year"])
	}
	if w.Context().Data["publisher"] != "Annalen" {
		t.Errorf("publisher = %v", w.Context().Data["publisher"])
	}
}

func TestMergeInteractiveDeclineKeepsExisting(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "year": 1905})
	w := New(doc, Options{
		Interactive: true,
		Prompter: &scriptedPrompter{choices: map[string]struct {
			value any
			keep  bool
		}{
			"year": {value: nil, keep: false},
		}},
	})

	ictx := importer.NewContext()
	ictx.Data = map[string]any{"year": 1906}
	w.Merge(&stubImporter{name: "stub", ctx: ictx})

	if w.Context().Data["year"] != 1905 {
		t.Errorf("year = %v, declining must keep the existing value", w.Context().Data["year"])
	}
}

func TestMergeInteractiveEditedValue(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "title": "old"})
	w := New(doc, Options{
		Interactive: true,
		Prompter: &scriptedPrompter{choices: map[string]struct {
			value any
			keep  bool
		}{
			"title": {value: "edited", keep: true},
		}},
	})

	ictx := importer.NewContext()
	ictx.Data = map[string]any{"title": "incoming"}
	w.Merge(&stubImporter{name: "stub", ctx: ictx})

	if w.Context().Data["title"] != "edited" {
		t.Errorf("title = %v", w.Context().Data["title"])
	}
}

func TestFileAcceptance(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r"})

	var previewed []string
	w := New(doc, Options{
		Interactive: true,
		Prompter:    &scriptedPrompter{confirm: true},
		PreviewFile: func(path string) error {
			previewed = append(previewed, path)
			return nil
		},
	})

	ictx := importer.NewContext()
	ictx.Files = []string{"/tmp/a.pdf", "/tmp/b.pdf"}
	w.Merge(&stubImporter{name: "stub", ctx: ictx})

	if len(w.Context().Files) != 2 {
		t.Errorf("accepted files = %v", w.Context().Files)
	}
	if len(previewed) != 2 {
		t.Errorf("previewed = %v", previewed)
	}
}

func TestCommitAttachesAcceptedFiles(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r"})
	src := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(src, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := New(doc, Options{
		Interactive: true,
		Prompter:    &scriptedPrompter{confirm: true},
	})
	ictx := importer.NewContext()
	ictx.Files = []string{src}
	w.Merge(&stubImporter{name: "stub", ctx: ictx})
	if err := w.Commit(&fakeStore{}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(doc.Folder(), "paper.pdf"))
	if err != nil {
		t.Fatalf("attached file: %v", err)
	}
	if string(got) != "pdf bytes" {
		t.Errorf("attached contents = %q", got)
	}

	files, err := doc.Files()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("doc files = %v", files)
	}
}

func TestFilesIgnoredNonInteractive(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r"})
	w := New(doc, Options{})

	ictx := importer.NewContext()
	ictx.Files = []string{"/tmp/a.pdf"}
	w.Merge(&stubImporter{name: "stub", ctx: ictx})

	if len(w.Context().Files) != 0 {
		t.Errorf("non-interactive run must not accept files, got %v", w.Context().Files)
	}
}

func TestCollectFromFailureIsIsolated(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("publisher: Annalen\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := testDoc(t, map[string]any{"ref": "r"})
	var log bytes.Buffer
	w := New(doc, Options{
		From: []FromDirective{
			{Importer: "yaml", URI: filepath.Join(dir, "missing.yaml")},
			{Importer: "yaml", URI: good},
			{Importer: "bogus", URI: "x"},
		},
		Log: &log,
	})

	collected := w.Collect(context.Background())
	if len(collected) != 1 {
		t.Fatalf("expected 1 successful importer, got %d", len(collected))
	}
	if collected[0].Ctx().Data["publisher"] != "Annalen" {
		t.Errorf("data = %v", collected[0].Ctx().Data)
	}
	if log.Len() == 0 {
		t.Error("failures should have been logged")
	}
}

func TestCollectFromExpandsURIPlaceholders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(path, []byte("note: found\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := testDoc(t, map[string]any{"ref": "r", "sidecar": path})
	w := New(doc, Options{
		From: []FromDirective{{Importer: "yaml", URI: "{doc[sidecar]}"}},
	})

	collected := w.Collect(context.Background())
	if len(collected) != 1 {
		t.Fatalf("expected 1 importer, got %d", len(collected))
	}
	if collected[0].Ctx().Data["note"] != "found" {
		t.Errorf("data = %v", collected[0].Ctx().Data)
	}
}

func TestAutoSurvivesFailingImporter(t *testing.T) {
	// "yaml" matches via the yaml_source field; point it at a broken file
	// so the fetch fails, and verify explicit set data still commits.
	doc := testDoc(t, map[string]any{
		"ref":         "r",
		"yaml_source": filepath.Join(t.TempDir(), "absent.yaml"),
	})

	var log bytes.Buffer
	store := &fakeStore{}
	w := New(doc, Options{
		Auto: true,
		Sets: []KV{{Key: "tags", Value: "kept"}},
		Log:  &log,
	})
	if err := w.Run(context.Background(), store); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := doc.GetString("tags"); got != "kept" {
		t.Errorf("tags = %q", got)
	}
	if !strings.Contains(log.String(), "yaml") {
		t.Errorf("failing importer should be logged, got %q", log.String())
	}
}

func TestIdempotentNoDirectives(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r", "author": "Einstein", "year": 1905})
	before := doc.Data()

	w := New(doc, Options{})
	if err := w.Run(context.Background(), &fakeStore{}); err != nil {
		t.Fatal(err)
	}

	reloaded, err := document.FromFolder(doc.Folder())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(reloaded.Data(), before) {
		t.Errorf("no-op update changed fields: %v -> %v", before, reloaded.Data())
	}
}

func TestCommitStoreFailure(t *testing.T) {
	doc := testDoc(t, map[string]any{"ref": "r"})
	store := &fakeStore{err: errors.New("index locked")}

	w := New(doc, Options{Sets: []KV{{Key: "tags", Value: "x"}}})
	err := w.Run(context.Background(), store)
	if err == nil || !strings.Contains(err.Error(), "index locked") {
		t.Errorf("expected store error to propagate, got %v", err)
	}
}
