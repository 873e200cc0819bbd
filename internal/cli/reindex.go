package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/ui"
)

type reindexCommand struct {
	app *App
}

func (c *reindexCommand) Name() string { return "reindex" }

func (c *reindexCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the library index from the document folders",
		Long: `Walk the library and rebuild the index from every document folder.

Use this after moving or editing folders outside of folio.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}, nil
}

func (c *reindexCommand) run(cmd *cobra.Command, args []string) error {
	lib, err := c.app.Library()
	if err != nil {
		return err
	}

	count, err := lib.Reindex()
	if err != nil {
		return err
	}
	fmt.Println(ui.Successf("indexed %d documents", count))
	return nil
}
