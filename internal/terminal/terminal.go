// Package terminal wraps the bits of the host terminal the widget needs:
// its size, the system clipboard and the local file system.
package terminal

import (
	"io"
	"os"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Size returns the terminal dimensions, falling back to 80x24.
func Size() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// IsTerminal checks if stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Clipboard copies text to the system clipboard with OSC 52 escape
// sequences, which most terminal emulators forward to the host.
type Clipboard struct {
	out    io.Writer
	getenv func(string) string
}

// NewClipboard writes escape sequences to out.
func NewClipboard(out io.Writer) *Clipboard {
	return &Clipboard{out: out, getenv: os.Getenv}
}

// Copy places text on the clipboard.
func (c *Clipboard) Copy(text string) error {
	seq := osc52.New(text)
	switch {
	case c.getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(c.getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(c.out)
	return err
}
