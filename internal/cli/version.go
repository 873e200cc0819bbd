package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
)

// Version is the release version, overridden at build time via
// -ldflags "-X github.com/folio-cli/folio/internal/cli.Version=...".
var Version = "dev"

type versionCommand struct{}

func (c *versionCommand) Name() string { return "version" }

func (c *versionCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("folio", Version)
			return nil
		},
	}, nil
}
