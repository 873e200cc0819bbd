package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/folio-cli/folio/internal/commands"
	"github.com/folio-cli/folio/internal/document"
	"github.com/folio-cli/folio/internal/ui"
)

type addCommand struct {
	app *App

	sets []string
}

func (c *addCommand) Name() string { return "add" }

func (c *addCommand) Init(f *commands.Frontend) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "add [file]...",
		Short: "Add a new document to the library",
		Long: `Create a new document folder from --set fields, copying any given
files into it. The folder name (and default ref) is derived from the
title, or from the first file's name.

Examples:
  folio add --set title="On the Electrodynamics of Moving Bodies" --set author=Einstein paper.pdf
  folio add --set title="Draft notes"`,
		RunE: c.run,
	}
	cmd.Flags().StringArrayVarP(&c.sets, "set", "s", nil, "Set a field, as key=value (repeatable)")
	return cmd, nil
}

func (c *addCommand) run(cmd *cobra.Command, args []string) error {
	lib, err := c.app.Library()
	if err != nil {
		return err
	}

	fields := make(map[string]string)
	for _, raw := range c.sets {
		key, value, ok := strings.Cut(raw, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: use key=value", raw)
		}
		fields[key] = value
	}

	name := fields["title"]
	if name == "" && len(args) > 0 {
		base := filepath.Base(args[0])
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if name == "" {
		return fmt.Errorf("nothing to name the document by: pass --set title or a file")
	}

	ref := slug.Make(name)
	folder := filepath.Join(lib.Root(), ref)
	if _, err := os.Stat(folder); err == nil {
		return fmt.Errorf("document folder already exists: %s", folder)
	}

	doc := document.New(folder)
	doc.Set(document.RefKey, ref)
	for key, value := range fields {
		doc.Set(key, value)
	}
	if err := doc.Save(); err != nil {
		return err
	}

	for _, src := range args {
		if err := copyIntoFolder(src, folder); err != nil {
			return err
		}
	}

	if err := lib.Update(doc); err != nil {
		return err
	}

	fmt.Println(ui.Successf("added %s (%s)", ref, ui.Path(folder)))
	return nil
}

func copyIntoFolder(src, folder string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	dst := filepath.Join(folder, filepath.Base(src))
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
