package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/document"
	"github.com/folio-cli/folio/internal/importer"
	"github.com/folio-cli/folio/internal/merge"
	"github.com/folio-cli/folio/internal/ui"
)

type updateCommand struct {
	app *App

	docFolder     string
	interactive   bool
	noInteractive bool
	force         bool
	auto          bool
	all           bool
	from          []string
	sets          []string
	deletes       []string
}

func (c *updateCommand) Name() string { return "update" }

func (c *updateCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "update [query]",
		Short: "Update documents from explicit values and importers",
		Long: `Update documents in the library.

Field values come from three places, applied in order: explicit --set and
--delete directives, importers matched automatically with --auto, and
importers named explicitly with --from. Conflicting values are resolved
interactively on a terminal; in batch mode the incoming value wins.

The document's ref is never changed by an update.

Examples:
  folio update --set tags="foo bar" einstein
  folio update --all --set tags="{doc[tags]} physics" classics
  folio update --auto "author : dyson"
  folio update --from yaml=notes.yaml dyson
  folio update --delete note --no-interactive dyson`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}

	cmd.Flags().StringVar(&c.docFolder, "doc-folder", "", "Operate on this document folder, bypassing the query")
	cmd.Flags().BoolVarP(&c.interactive, "interactive", "i", true, "Resolve conflicts and confirmations interactively")
	cmd.Flags().BoolVarP(&c.noInteractive, "no-interactive", "b", false, "Batch mode, never prompt")
	cmd.Flags().BoolVarP(&c.force, "force", "f", false, "Apply without confirmation prompts")
	cmd.Flags().BoolVar(&c.auto, "auto", false, "Collect data from every importer that matches the document")
	cmd.Flags().BoolVar(&c.all, "all", false, "Update every matching document, not just one")
	cmd.Flags().StringArrayVar(&c.from, "from", nil, "Fetch from a named importer, as importer=uri (repeatable)")
	cmd.Flags().StringArrayVarP(&c.sets, "set", "s", nil, "Set a field, as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&c.deletes, "delete", "d", nil, "Delete a field by key (repeatable)")

	return cmd, nil
}

func (c *updateCommand) run(cmd *cobra.Command, args []string) error {
	opts, err := c.options()
	if err != nil {
		return err
	}

	docs, err := c.selectDocuments(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Fprintln(os.Stderr, ui.Warning("no documents retrieved"))
		return nil
	}

	lib, libErr := c.app.Library()
	if libErr != nil && c.docFolder == "" {
		return libErr
	}

	var failed int
	for _, doc := range docs {
		fmt.Fprintln(os.Stderr, ui.Infof("updating %s", describe(doc)))

		wf := merge.New(doc, opts)
		// A --doc-folder outside any library is saved but not indexed.
		var store merge.Store = noopStore{}
		if libErr == nil && lib.Contains(doc.Folder()) {
			store = lib
		}
		if err := wf.Run(cmd.Context(), store); err != nil {
			if !c.all {
				return fmt.Errorf("update %s: %w", describe(doc), err)
			}
			// Batch mode: one document's commit failure does not stop
			// the rest.
			failed++
			fmt.Fprintln(os.Stderr, ui.Errorf("update %s: %v", describe(doc), err))
		}
	}

	if failed > 0 {
		fmt.Fprintln(os.Stderr, ui.Warningf("%d of %d documents failed", failed, len(docs)))
	}
	return nil
}

func (c *updateCommand) options() (merge.Options, error) {
	interactive := c.interactive && !c.noInteractive && stdinIsTerminal()

	opts := merge.Options{
		Interactive: interactive,
		Force:       c.force,
		Auto:        c.auto,
		Log:         os.Stderr,
	}
	if interactive {
		opts.Prompter = newTTYPrompter()
		opener := c.app.Config.GetOpener()
		opts.PreviewFile = func(path string) error {
			return exec.Command(opener, path).Run()
		}
	}

	for _, raw := range c.sets {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return opts, fmt.Errorf("invalid --set %q: use key=value", raw)
		}
		opts.Sets = append(opts.Sets, merge.KV{Key: key, Value: value})
	}
	opts.Deletes = c.deletes

	available := importer.Available()
	for _, raw := range c.from {
		name, uri, ok := strings.Cut(raw, "=")
		if !ok {
			return opts, fmt.Errorf("invalid --from %q: use importer=uri (available: %s)",
				raw, strings.Join(available, ", "))
		}
		opts.From = append(opts.From, merge.FromDirective{Importer: name, URI: uri})
	}

	return opts, nil
}

// selectDocuments resolves the target documents: an explicit folder, every
// query match with --all, or one picked match.
func (c *updateCommand) selectDocuments(args []string) ([]*document.Document, error) {
	if c.docFolder != "" {
		doc, err := document.FromFolder(c.docFolder)
		if err != nil {
			return nil, err
		}
		return []*document.Document{doc}, nil
	}

	query := "."
	if len(args) > 0 {
		query = args[0]
	}

	lib, err := c.app.Library()
	if err != nil {
		return nil, err
	}
	docs, err := lib.Query(query)
	if err != nil {
		return nil, err
	}
	if c.all || len(docs) == 0 {
		return docs, nil
	}

	doc, err := pickDocument(docs)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return []*document.Document{doc}, nil
}

func describe(doc *document.Document) string {
	if ref := doc.Ref(); ref != "" {
		return ui.Accent.Render(ref)
	}
	return ui.Accent.Render(doc.Folder())
}

// noopStore is used when updating a --doc-folder outside any library:
// the document is saved but there is no index to refresh.
type noopStore struct{}

func (noopStore) Update(*document.Document) error { return nil }
