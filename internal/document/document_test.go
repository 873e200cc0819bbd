package document

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSaveAndReload(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "einstein-1905")

	doc := New(folder)
	doc.Set("ref", "einstein-1905")
	doc.Set("title", "On the Electrodynamics of Moving Bodies")
	doc.Set("author", "Albert Einstein")
	doc.Set("year", 1905)
	doc.Set("tags", "physics classics")

	if err := doc.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := FromFolder(folder)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(loaded.Data(), doc.Data()) {
		t.Errorf("round trip mismatch:\nsaved:  %v\nloaded: %v", doc.Data(), loaded.Data())
	}
}

func TestFromFolderMissingInfo(t *testing.T) {
	_, err := FromFolder(t.TempDir())
	if err == nil {
		t.Fatal("expected error for folder without info.yaml")
	}
}

func TestDelete(t *testing.T) {
	doc := New("")
	doc.Set("tags", "physics")

	if err := doc.Delete("tags"); err != nil {
		t.Fatalf("delete existing key: %v", err)
	}
	if doc.Has("tags") {
		t.Error("tags should be gone after delete")
	}
	if err := doc.Delete("tags"); err == nil {
		t.Error("expected error deleting absent key")
	}
}

func TestFiles(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "doc")
	doc := New(folder)
	doc.Set("ref", "doc")
	if err := doc.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := os.WriteFile(filepath.Join(folder, "paper.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := doc.Files()
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "paper.pdf" {
		t.Errorf("expected [paper.pdf], got %v", files)
	}
}

func TestFormat(t *testing.T) {
	doc := New("")
	doc.Set("tags", "classics")
	doc.Set("doi", "10.1000/182")

	tests := []struct {
		template string
		want     string
	}{
		{"{doc[tags]} physics", "classics physics"},
		{"https://doi.org/{doc[doi]}", "https://doi.org/10.1000/182"},
		{"{doc[missing]}", ""},
		{"no placeholders", "no placeholders"},
		{"{doc[unclosed", "{doc[unclosed"},
	}
	for _, tt := range tests {
		if got := Format(tt.template, doc); got != tt.want {
			t.Errorf("Format(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}
