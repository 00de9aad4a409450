// Package interaction implements the User Interaction component: TTY
// detection and the y/n confirmation prompt guards use when a blocking
// decision can be resolved interactively.
package interaction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// TTY is the default Interactor, backed by the process's real stdin,
// stdout, and stderr file descriptors. Reader/Writer default to os.Stdin
// and os.Stderr but are exposed so tests can substitute in-memory pipes.
type TTY struct {
	Reader io.Reader
	Writer io.Writer
}

// NewTTY returns a TTY wired to the process's real file descriptors.
func NewTTY() TTY {
	return TTY{Reader: os.Stdin, Writer: os.Stderr}
}

// IsInteractive reports whether all three of stdin, stdout, and stderr
// are attached to a terminal.
func (TTY) IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) &&
		isatty.IsTerminal(os.Stdout.Fd()) &&
		isatty.IsTerminal(os.Stderr.Fd())
}

// Confirm prints message to standard error, then reads a line from
// standard input. "y"/"yes" (case-insensitive) admits; anything else
// refuses. An empty response uses defaultAllow. EOF/interrupt is treated
// as a refusal regardless of defaultAllow: an unanswerable prompt must
// never resolve to an allow.
func (t TTY) Confirm(message string, defaultAllow bool) bool {
	w := t.Writer
	if w == nil {
		w = os.Stderr
	}
	r := t.Reader
	if r == nil {
		r = os.Stdin
	}

	fmt.Fprintln(w, message)
	prompt := "Allow this action? (y/N): "
	if defaultAllow {
		prompt = "Allow this action? (Y/n): "
	}
	fmt.Fprint(w, prompt)

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	response := strings.ToLower(strings.TrimSpace(scanner.Text()))
	if response == "" {
		return defaultAllow
	}
	return response == "y" || response == "yes"
}
