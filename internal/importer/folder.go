package importer

import (
	"context"
	"fmt"

	"github.com/folio-cli/folio/internal/document"
)

// folderImporter reads another document folder: its info fields become
// candidate data and its attached files become candidate files.
type folderImporter struct {
	uri string
	ctx *Context
}

func init() {
	Register("folder",
		func(uri string) Importer { return &folderImporter{uri: uri} },
		nil)
}

func (f *folderImporter) Name() string { return "folder" }

func (f *folderImporter) Ctx() *Context { return f.ctx }

func (f *folderImporter) Fetch(_ context.Context) error {
	doc, err := document.FromFolder(f.uri)
	if err != nil {
		return fmt.Errorf("folder importer: %w", err)
	}
	files, err := doc.Files()
	if err != nil {
		return fmt.Errorf("folder importer: %w", err)
	}

	f.ctx = NewContext()
	f.ctx.Data = doc.Data()
	f.ctx.Files = files
	return nil
}
