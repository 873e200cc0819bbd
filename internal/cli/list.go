package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/ui"
)

type listCommand struct {
	app *App

	folders bool
}

func (c *listCommand) Name() string { return "list" }

func (c *listCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List documents matching a query",
		Long: `List documents in the library. With no query every document is listed.

Examples:
  folio list
  folio list einstein
  folio list --folders "tags:physics"`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	cmd.Flags().BoolVar(&c.folders, "folders", false, "Print document folder paths, one per line")
	return cmd, nil
}

func (c *listCommand) run(cmd *cobra.Command, args []string) error {
	lib, err := c.app.Library()
	if err != nil {
		return err
	}

	query := "."
	if len(args) > 0 {
		query = args[0]
	}

	docs, err := lib.Query(query)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if c.folders {
			fmt.Println(doc.Folder())
			continue
		}
		line := ui.Accent.Render(doc.Ref())
		if title := doc.GetString("title"); title != "" {
			line += "  " + title
		}
		if author := doc.GetString("author"); author != "" {
			line += "  " + ui.Hint(author)
		}
		fmt.Println(line)
	}
	return nil
}
