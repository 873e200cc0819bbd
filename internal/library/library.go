// Package library implements the document store: a directory of document
// folders plus a SQLite index that makes them query-addressable.
package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/folio-cli/folio/internal/document"
)

// indexDir is the library-local directory holding the index database.
const indexDir = ".folio"

// ErrDocumentNotFound indicates the requested document is not in the index.
var ErrDocumentNotFound = errors.New("document not found in index")

// Library is an open document store.
type Library struct {
	root string
	db   *sql.DB
}

// Open opens the library rooted at root, creating the index if needed.
func Open(root string) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("library not found: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root is not a directory: %s", root)
	}

	dbDir := filepath.Join(root, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", indexDir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dbDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	lib := &Library{root: root, db: db}
	if err := lib.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return lib, nil
}

// Root returns the library root directory.
func (l *Library) Root() string {
	return l.root
}

// Close closes the index database.
func (l *Library) Close() error {
	return l.db.Close()
}

func (l *Library) initialize() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			folder TEXT PRIMARY KEY,
			ref    TEXT NOT NULL DEFAULT '',
			title  TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			year   TEXT NOT NULL DEFAULT '',
			tags   TEXT NOT NULL DEFAULT '',
			data   TEXT NOT NULL DEFAULT '{}',
			mtime  INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_documents_ref ON documents(ref);
	`)
	if err != nil {
		return fmt.Errorf("failed to initialize index schema: %w", err)
	}
	return nil
}

// Update writes the document's current fields into the index, inserting
// the row if the folder is not indexed yet. The folder is stored relative
// to the library root.
func (l *Library) Update(doc *document.Document) error {
	rel, err := l.relFolder(doc.Folder())
	if err != nil {
		return err
	}

	blob, err := json.Marshal(doc.Data())
	if err != nil {
		return fmt.Errorf("failed to encode document data: %w", err)
	}

	var mtime int64
	if st, err := os.Stat(filepath.Join(doc.Folder(), document.InfoFile)); err == nil {
		mtime = st.ModTime().Unix()
	}

	_, err = l.db.Exec(`
		INSERT INTO documents (folder, ref, title, author, year, tags, data, mtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(folder) DO UPDATE SET
			ref = excluded.ref,
			title = excluded.title,
			author = excluded.author,
			year = excluded.year,
			tags = excluded.tags,
			data = excluded.data,
			mtime = excluded.mtime
	`, rel, doc.Ref(), doc.GetString("title"), doc.GetString("author"),
		doc.GetString("year"), doc.GetString("tags"), string(blob), mtime)
	if err != nil {
		return fmt.Errorf("failed to update index for %s: %w", rel, err)
	}
	return nil
}

// Remove drops a document folder from the index.
func (l *Library) Remove(folder string) error {
	rel, err := l.relFolder(folder)
	if err != nil {
		return err
	}
	res, err := l.db.Exec(`DELETE FROM documents WHERE folder = ?`, rel)
	if err != nil {
		return fmt.Errorf("failed to remove %s from index: %w", rel, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, rel)
	}
	return nil
}

// Query returns the documents matching q. An empty query or "." matches
// every indexed document. Otherwise q is matched as a substring against
// the ref, title, author, year, and tags columns. Matching documents are
// loaded from their folders so callers always see current on-disk data.
func (l *Library) Query(q string) ([]*document.Document, error) {
	var rows *sql.Rows
	var err error
	if q == "" || q == "." {
		rows, err = l.db.Query(`SELECT folder FROM documents ORDER BY folder`)
	} else {
		pattern := "%" + q + "%"
		rows, err = l.db.Query(`
			SELECT folder FROM documents
			WHERE ref LIKE ? OR title LIKE ? OR author LIKE ? OR year LIKE ? OR tags LIKE ?
			ORDER BY folder
		`, pattern, pattern, pattern, pattern, pattern)
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var folders []string
	for rows.Next() {
		var folder string
		if err := rows.Scan(&folder); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query iteration failed: %w", err)
	}

	docs := make([]*document.Document, 0, len(folders))
	for _, folder := range folders {
		doc, err := document.FromFolder(filepath.Join(l.root, folder))
		if err != nil {
			// Stale index entry; skip rather than fail the whole query.
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Reindex walks the library and rebuilds the index from scratch.
// It returns the number of documents indexed.
func (l *Library) Reindex() (int, error) {
	folders, err := l.walk()
	if err != nil {
		return 0, err
	}

	if _, err := l.db.Exec(`DELETE FROM documents`); err != nil {
		return 0, fmt.Errorf("failed to clear index: %w", err)
	}

	count := 0
	for _, folder := range folders {
		doc, err := document.FromFolder(folder)
		if err != nil {
			continue
		}
		if err := l.Update(doc); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// walk returns every folder under the library root containing an
// info.yaml, sorted. The index directory is skipped.
func (l *Library) walk() ([]string, error) {
	var folders []string
	err := filepath.WalkDir(l.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == indexDir {
			return filepath.SkipDir
		}
		if _, err := os.Stat(filepath.Join(path, document.InfoFile)); err == nil {
			folders = append(folders, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk library: %w", err)
	}
	sort.Strings(folders)
	return folders, nil
}

// Contains reports whether folder lives inside the library root.
func (l *Library) Contains(folder string) bool {
	_, err := l.relFolder(folder)
	return err == nil
}

func (l *Library) relFolder(folder string) (string, error) {
	rel, err := filepath.Rel(l.root, folder)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("folder %s is not inside library %s", folder, l.root)
	}
	return filepath.ToSlash(rel), nil
}
