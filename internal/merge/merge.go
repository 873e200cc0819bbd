// Package merge implements the update workflow: collect candidate field
// data from importers, reconcile it with a document's current fields, and
// commit the result to the document folder and the library index.
package merge

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/folio-cli/folio/internal/atomicfile"
	"github.com/folio-cli/folio/internal/document"
	"github.com/folio-cli/folio/internal/importer"
	"github.com/folio-cli/folio/internal/ui"
)

// Store is the slice of the library the workflow needs to commit.
type Store interface {
	Update(doc *document.Document) error
}

// Prompter answers the interactive questions the workflow may ask. A nil
// Prompter makes every decision non-interactively.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(message string) bool
	// ChooseValue resolves a field conflict. It returns the value to keep.
	// Returning keep=false means the user declined and the existing value
	// stays.
	ChooseValue(key string, existing, incoming any, source string) (value any, keep bool)
}

// KV is one explicit --set directive. The value may contain {doc[key]}
// placeholders expanded against the target document.
type KV struct {
	Key   string
	Value string
}

// FromDirective names an importer and the URI to fetch from. The URI may
// contain {doc[key]} placeholders.
type FromDirective struct {
	Importer string
	URI      string
}

// Options configure one workflow run.
type Options struct {
	Interactive bool
	Force       bool
	Auto        bool
	Sets        []KV
	Deletes     []string
	From        []FromDirective

	// Prompter is consulted only when Interactive is set.
	Prompter Prompter

	// PreviewFile, when non-nil, is invoked to show a candidate file to
	// the user before the acceptance prompt.
	PreviewFile func(path string) error

	// Log receives progress and warning lines. Defaults to os.Stderr.
	Log io.Writer
}

// Workflow drives one update of a single document.
type Workflow struct {
	doc     *document.Document
	ctx     *importer.Context
	opts    Options
	deleted []string
}

// New seeds a workflow with the document's current fields.
func New(doc *document.Document, opts Options) *Workflow {
	if opts.Log == nil {
		opts.Log = os.Stderr
	}
	ctx := importer.NewContext()
	ctx.Data = doc.Data()
	return &Workflow{doc: doc, ctx: ctx, opts: opts}
}

// Context exposes the accumulated data and approved files.
func (w *Workflow) Context() *importer.Context {
	return w.ctx
}

// Run executes the full workflow against store: explicit directives,
// importer collection, merge, and commit.
func (w *Workflow) Run(ctx context.Context, store Store) error {
	w.ApplySets()
	w.ApplyDeletes()

	collected := w.Collect(ctx)
	for _, imp := range collected {
		w.Merge(imp)
	}

	return w.Commit(store)
}

// ApplySets applies every --set directive to the working context, with
// {doc[key]} placeholders expanded against the target document.
func (w *Workflow) ApplySets() {
	for _, kv := range w.opts.Sets {
		w.ctx.Data[kv.Key] = document.Format(kv.Value, w.doc)
	}
}

// ApplyDeletes removes the named keys. In interactive mode each removal is
// confirmed first unless Force is set. A missing key is reported and
// skipped, never fatal.
func (w *Workflow) ApplyDeletes() {
	for _, key := range w.opts.Deletes {
		if w.opts.Interactive && !w.opts.Force && w.opts.Prompter != nil {
			if !w.opts.Prompter.Confirm(fmt.Sprintf("Delete %s?", key)) {
				continue
			}
		}
		if _, ok := w.ctx.Data[key]; !ok {
			fmt.Fprintln(w.opts.Log, ui.Warningf("document has no key %q", key))
			continue
		}
		delete(w.ctx.Data, key)
		w.deleted = append(w.deleted, key)
	}
}

// Collect runs the requested importers and returns those that produced a
// non-empty context. Importer failures are reported and skipped; one
// importer's failure never aborts the others.
func (w *Workflow) Collect(ctx context.Context) []importer.Importer {
	var matched []importer.Importer

	if w.opts.Auto && len(w.opts.From) == 0 {
		for _, name := range importer.Available() {
			imp, err := importer.MatchData(name, w.doc)
			if err == importer.ErrNotApplicable {
				continue
			}
			if err != nil {
				fmt.Fprintln(w.opts.Log, ui.Warningf("importer %s: %v", name, err))
				continue
			}
			if err := imp.Fetch(ctx); err != nil {
				fmt.Fprintln(w.opts.Log, ui.Warningf("importer %s: %v", name, err))
				continue
			}
			if !imp.Ctx().Empty() {
				matched = append(matched, imp)
			}
		}
	}

	for _, from := range w.opts.From {
		uri := document.Format(from.URI, w.doc)
		imp, err := importer.New(from.Importer, uri)
		if err != nil {
			fmt.Fprintln(w.opts.Log, ui.Warning(err.Error()))
			continue
		}
		if err := imp.Fetch(ctx); err != nil {
			fmt.Fprintln(w.opts.Log, ui.Warningf("importer %s: %v", from.Importer, err))
			continue
		}
		if !imp.Ctx().Empty() {
			matched = append(matched, imp)
		}
	}

	return matched
}

// Merge folds one importer's results into the working context.
//
// Field conflicts: non-interactively the incoming value wins. Interactively
// the user chooses; declining keeps the existing value. Candidate files are
// previewed (when a previewer is configured) and individually confirmed;
// non-interactive runs accept no files.
func (w *Workflow) Merge(imp importer.Importer) {
	ictx := imp.Ctx()
	if ictx == nil {
		return
	}

	if len(ictx.Data) > 0 {
		fmt.Fprintln(w.opts.Log, ui.Infof("merging data from importer %s", imp.Name()))
		for key, incoming := range ictx.Data {
			existing, conflict := w.ctx.Data[key]
			if conflict && !reflect.DeepEqual(existing, incoming) && w.opts.Interactive && w.opts.Prompter != nil {
				value, keep := w.opts.Prompter.ChooseValue(key, existing, incoming, imp.Name())
				if !keep {
					continue
				}
				w.ctx.Data[key] = value
				continue
			}
			w.ctx.Data[key] = incoming
		}
	}

	for _, file := range ictx.Files {
		if !w.opts.Interactive || w.opts.Prompter == nil {
			continue
		}
		if w.opts.PreviewFile != nil {
			if err := w.opts.PreviewFile(file); err != nil {
				fmt.Fprintln(w.opts.Log, ui.Warningf("preview %s: %v", file, err))
			}
		}
		if w.opts.Prompter.Confirm(fmt.Sprintf("Use file %s?", file)) {
			w.ctx.Files = append(w.ctx.Files, file)
		}
	}
}

// Commit writes the merged context back onto the document, preserving the
// document's ref from before the merge, saves the folder, and updates the
// store's index entry.
func (w *Workflow) Commit(store Store) error {
	// Merged data must never rewrite the document's identity.
	for _, kv := range w.opts.Sets {
		if kv.Key == document.RefKey {
			fmt.Fprintln(w.opts.Log, ui.Warningf("the ref field cannot be changed by an update; keeping %q", w.doc.Ref()))
			break
		}
	}
	if w.doc.Has(document.RefKey) {
		w.ctx.Data[document.RefKey] = w.doc.Get(document.RefKey)
	} else {
		delete(w.ctx.Data, document.RefKey)
	}

	for _, key := range w.deleted {
		// Key may have been re-added by an importer after the delete; the
		// context is authoritative.
		if _, ok := w.ctx.Data[key]; !ok {
			_ = w.doc.Delete(key)
		}
	}
	w.doc.Update(w.ctx.Data)
	if err := w.doc.Save(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	for _, file := range w.ctx.Files {
		if err := w.attach(file); err != nil {
			return fmt.Errorf("attach %s: %w", file, err)
		}
	}
	if err := store.Update(w.doc); err != nil {
		return fmt.Errorf("update index: %w", err)
	}
	return nil
}

// attach copies an accepted candidate file into the document folder. A file
// already living there is left alone.
func (w *Workflow) attach(src string) error {
	dst := filepath.Join(w.doc.Folder(), filepath.Base(src))
	if abs, err := filepath.Abs(src); err == nil {
		if same, err := filepath.Abs(dst); err == nil && abs == same {
			return nil
		}
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(dst, data, 0o644)
}
