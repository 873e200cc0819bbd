package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/config"
	"github.com/folio-cli/folio/internal/ui"
)

type configCommand struct {
	app *App
}

func (c *configCommand) Name() string { return "config" }

func (c *configCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}, nil
}

func (c *configCommand) run(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.Hint("# " + config.DefaultPath()))
	return toml.NewEncoder(os.Stdout).Encode(c.app.Config)
}
