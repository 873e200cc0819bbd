// Package document implements the on-disk document folder format.
//
// A document is a folder containing an info.yaml file with the document's
// fields, plus any number of attached files. The "ref" field is the stable
// identity used by the library index; it is never rewritten by updates.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/folio-cli/folio/internal/atomicfile"
)

// InfoFile is the name of the per-folder metadata file.
const InfoFile = "info.yaml"

// RefKey is the field holding a document's stable identity.
const RefKey = "ref"

// ErrNoInfoFile indicates a folder without an info.yaml.
var ErrNoInfoFile = errors.New("folder has no info.yaml")

// Document is a mapping of fields backed by a document folder.
type Document struct {
	folder string
	data   map[string]any
}

// New returns an empty document bound to folder. The folder does not need
// to exist until Save is called.
func New(folder string) *Document {
	return &Document{folder: folder, data: make(map[string]any)}
}

// FromFolder loads the document stored in folder.
func FromFolder(folder string) (*Document, error) {
	infoPath := filepath.Join(folder, InfoFile)
	raw, err := os.ReadFile(infoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoInfoFile, folder)
		}
		return nil, fmt.Errorf("read %s: %w", infoPath, err)
	}

	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", infoPath, err)
	}
	return &Document{folder: folder, data: data}, nil
}

// Folder returns the document's folder path.
func (d *Document) Folder() string {
	return d.folder
}

// Ref returns the document's stable reference key ("" if unset).
func (d *Document) Ref() string {
	return d.GetString(RefKey)
}

// Get returns the value for key, or nil.
func (d *Document) Get(key string) any {
	return d.data[key]
}

// GetString returns the value for key rendered as a string ("" if absent).
func (d *Document) GetString(key string) string {
	v, ok := d.data[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Has reports whether key is set.
func (d *Document) Has(key string) bool {
	_, ok := d.data[key]
	return ok
}

// Set stores value under key.
func (d *Document) Set(key string, value any) {
	d.data[key] = value
}

// Delete removes key. It returns an error if the key is absent so callers
// can report it without treating it as fatal.
func (d *Document) Delete(key string) error {
	if _, ok := d.data[key]; !ok {
		return fmt.Errorf("document has no key %q", key)
	}
	delete(d.data, key)
	return nil
}

// Keys returns the document's field names, sorted.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Data returns a copy of the document's fields.
func (d *Document) Data() map[string]any {
	out := make(map[string]any, len(d.data))
	for k, v := range d.data {
		out[k] = v
	}
	return out
}

// Update merges data into the document, overwriting existing keys.
func (d *Document) Update(data map[string]any) {
	for k, v := range data {
		d.data[k] = v
	}
}

// Save persists the document's fields to its folder, creating the folder
// if needed. The write is atomic.
func (d *Document) Save() error {
	if d.folder == "" {
		return errors.New("document has no folder")
	}
	if err := os.MkdirAll(d.folder, 0o755); err != nil {
		return fmt.Errorf("create document folder: %w", err)
	}

	out, err := yaml.Marshal(d.data)
	if err != nil {
		return fmt.Errorf("marshal document data: %w", err)
	}
	if err := atomicfile.WriteFile(filepath.Join(d.folder, InfoFile), out, 0); err != nil {
		return fmt.Errorf("write %s: %w", InfoFile, err)
	}
	return nil
}

// Files returns the paths of files attached to the document folder,
// excluding the info file itself. Subdirectories are not descended into.
func (d *Document) Files() ([]string, error) {
	entries, err := os.ReadDir(d.folder)
	if err != nil {
		return nil, fmt.Errorf("read document folder: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == InfoFile {
			continue
		}
		files = append(files, filepath.Join(d.folder, entry.Name()))
	}
	return files, nil
}
