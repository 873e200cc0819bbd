package importer

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/folio-cli/folio/internal/document"
)

// yamlImporter reads a YAML mapping file as document data.
type yamlImporter struct {
	uri string
	ctx *Context
}

func init() {
	Register("yaml",
		func(uri string) Importer { return &yamlImporter{uri: uri} },
		func(doc *document.Document) (string, error) {
			// Applicable when the document points at a YAML source itself.
			if src := doc.GetString("yaml_source"); src != "" {
				return src, nil
			}
			return "", ErrNotApplicable
		})
}

func (y *yamlImporter) Name() string { return "yaml" }

func (y *yamlImporter) Ctx() *Context { return y.ctx }

func (y *yamlImporter) Fetch(_ context.Context) error {
	raw, err := os.ReadFile(y.uri)
	if err != nil {
		return fmt.Errorf("yaml importer: %w", err)
	}

	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("yaml importer: parse %s: %w", y.uri, err)
	}

	y.ctx = NewContext()
	y.ctx.Data = data
	return nil
}
