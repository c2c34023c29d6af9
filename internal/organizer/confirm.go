package organizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Confirmation modes accepted in configuration.
const (
	ConfirmAuto        = "auto"
	ConfirmInteractive = "interactive"
)

// Confirmer decides whether a planned move may proceed. Declined moves
// are skipped without writing a ledger record, so a later run can pick
// them up again.
type Confirmer interface {
	Confirm(sourcePath, destPath string) (bool, error)
}

// AutoConfirmer accepts every move.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(string, string) (bool, error) { return true, nil }

// PolicyConfirmer delegates to a callback.
type PolicyConfirmer func(sourcePath, destPath string) (bool, error)

func (f PolicyConfirmer) Confirm(src, dst string) (bool, error) { return f(src, dst) }

// InteractiveConfirmer prompts on out and reads a y/n answer from in.
type InteractiveConfirmer struct {
	In  io.Reader
	Out io.Writer

	br *bufio.Reader
}

func (c *InteractiveConfirmer) Confirm(src, dst string) (bool, error) {
	// One reader for the confirmer's lifetime; a fresh reader per prompt
	// would discard input it buffered past the first answer.
	if c.br == nil {
		c.br = bufio.NewReader(c.In)
	}
	fmt.Fprintf(c.Out, "move %s\n  -> %s\nproceed? [y/N] ", src, dst)
	line, err := c.br.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// NewConfirmer builds a confirmer for the configured mode. Interactive
// mode requires stdin to be a terminal; otherwise it degrades to
// auto-accept so unattended runs never hang on a prompt.
func NewConfirmer(mode string) Confirmer {
	if mode == ConfirmInteractive && isatty.IsTerminal(os.Stdin.Fd()) {
		return &InteractiveConfirmer{In: os.Stdin, Out: os.Stderr}
	}
	return AutoConfirmer{}
}
