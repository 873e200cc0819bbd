package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/ui"
)

type openCommand struct {
	app *App
}

func (c *openCommand) Name() string { return "open" }

func (c *openCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "open <query>",
		Short: "Open a document's attached file",
		Long: `Pick a document by query and open its first attached file with the
configured opener. With no attached files the folder is opened instead.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}, nil
}

func (c *openCommand) run(cmd *cobra.Command, args []string) error {
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

	target := doc.Folder()
	files, err := doc.Files()
	if err != nil {
		return err
	}
	if len(files) > 0 {
		target = files[0]
	}

	opener := c.app.Config.GetOpener()
	if err := exec.Command(opener, target).Run(); err != nil {
		return fmt.Errorf("%s %s: %w", opener, target, err)
	}
	return nil
}
