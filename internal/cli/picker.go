package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/folio-cli/folio/internal/document"
)

var fzfLookPath = exec.LookPath

func hasFZFInstalled() bool {
	_, err := fzfLookPath("fzf")
	return err == nil
}

// pickDocument selects one document from candidates. On a terminal with
// fzf installed the user picks interactively; otherwise the first
// candidate is returned. An empty candidate list yields nil.
func pickDocument(docs []*document.Document) (*document.Document, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	if !stdinIsTerminal() || !stdoutIsTerminal() || !hasFZFInstalled() {
		return docs[0], nil
	}

	lines := make([]string, len(docs))
	byLine := make(map[string]*document.Document, len(docs))
	for i, doc := range docs {
		line := fmt.Sprintf("%s\t%s\t%s", doc.Ref(), doc.GetString("title"), doc.GetString("author"))
		lines[i] = line
		byLine[line] = doc
	}

	cmd := exec.Command("fzf",
		"--layout=reverse",
		"--height=60%",
		"--delimiter=\t",
		"--select-1",
		"--exit-0",
		"--prompt=document> ",
	)
	cmd.Stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		// fzf exits 130 on escape and 1 on no match; both mean "nothing
		// picked", not a failure.
		if errors.As(err, &exitErr) && (exitErr.ExitCode() == 130 || exitErr.ExitCode() == 1) {
			return nil, nil
		}
		return nil, fmt.Errorf("fzf failed: %w", err)
	}

	choice := strings.TrimRight(stdout.String(), "\n")
	doc, ok := byLine[choice]
	if !ok {
		return nil, nil
	}
	return doc, nil
}
