package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/document"
	"github.com/folio-cli/folio/internal/ui"
)

type editCommand struct {
	app *App
}

func (c *editCommand) Name() string { return "edit" }

func (c *editCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "edit <query>",
		Short: "Edit a document's info file",
		Long: `Pick a document by query and open its info.yaml in the configured
editor. The index entry is refreshed afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}, nil
}

func (c *editCommand) run(cmd *cobra.Command, args []string) error {
	lib, err := c.app.Library()
	if err != nil {
		return err
	}

	docs, err := lib.Query(args[0])
	if err != nil {
		return err
	}
	doc, err := pickDocument(docs)
	if err != nil {
		return err
	}
	if doc == nil {
		fmt.Fprintln(os.Stderr, ui.Warning("no documents retrieved"))
		return nil
	}

	editor := c.app.Config.GetEditor()
	infoPath := filepath.Join(doc.Folder(), document.InfoFile)

	edit := exec.Command(editor, infoPath)
	edit.Stdin = os.Stdin
	edit.Stdout = os.Stdout
	edit.Stderr = os.Stderr
	if err := edit.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", editor, infoPath, err)
	}

	// Reload and reindex whatever the user wrote.
	edited, err := document.FromFolder(doc.Folder())
	if err != nil {
		return err
	}
	return lib.Update(edited)
}
