package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/folio-cli/folio/internal/ui"
)

func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd())
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// ttyPrompter answers merge prompts by reading the terminal. Off a tty
// every question is answered conservatively: no.
type ttyPrompter struct {
	in *bufio.Reader
}

func newTTYPrompter() *ttyPrompter {
	return &ttyPrompter{in: bufio.NewReader(os.Stdin)}
}

func (p *ttyPrompter) readLine() string {
	line, _ := p.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// Confirm asks a yes/no question, defaulting to no.
func (p *ttyPrompter) Confirm(message string) bool {
	if !stdinIsTerminal() || !stdoutIsTerminal() {
		return false
	}
	fmt.Printf("%s %s ", message, ui.Hint("[y/N]"))
	answer := strings.ToLower(p.readLine())
	return answer == "y" || answer == "yes"
}

// ChooseValue resolves a field conflict. Declining (the default) keeps the
// existing value.
func (p *ttyPrompter) ChooseValue(key string, existing, incoming any, source string) (any, bool) {
	if !stdinIsTerminal() || !stdoutIsTerminal() {
		return nil, false
	}

	fmt.Printf("%s (%s)\n", ui.Header(key), ui.Accent.Render(source))
	fmt.Printf("  current: %v\n", existing)
	fmt.Printf("  new:     %v\n", incoming)
	fmt.Printf("Use new value? %s ", ui.Hint("[y/N/e(dit)]"))

	switch strings.ToLower(p.readLine()) {
	case "y", "yes":
		return incoming, true
	case "e", "edit":
		fmt.Printf("%s = ", key)
		return p.readLine(), true
	default:
		return nil, false
	}
}
