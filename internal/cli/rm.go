package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/ui"
)

type rmCommand struct {
	app *App

	force bool
}

func (c *rmCommand) Name() string { return "rm" }

func (c *rmCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "rm <query>",
		Short: "Remove a document from the library",
		Long: `Remove a document's folder and its index entry. Prompts for
confirmation unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	cmd.Flags().BoolVarP(&c.force, "force", "f", false, "Remove without confirmation")
	return cmd, nil
}

func (c *rmCommand) run(cmd *cobra.Command, args []string) error {
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

	if !c.force {
		if !newTTYPrompter().Confirm(fmt.Sprintf("Remove %s?", describe(doc))) {
			return nil
		}
	}

	if err := lib.Remove(doc.Folder()); err != nil {
		return err
	}
	if err := os.RemoveAll(doc.Folder()); err != nil {
		return fmt.Errorf("remove folder: %w", err)
	}

	fmt.Println(ui.Successf("removed %s", describe(doc)))
	return nil
}
