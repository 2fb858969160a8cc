package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Terminal provides terminal-aware output utilities
type Terminal struct {
	IsTerminal bool
}

// NewTerminal creates a new Terminal instance. Color output is disabled
// globally when stdout is not a terminal.
func NewTerminal() *Terminal {
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if !isTerminal {
		color.NoColor = true
	}
	return &Terminal{IsTerminal: isTerminal}
}

// ClearLine clears the current line (terminal only)
func (t *Terminal) ClearLine() {
	if t.IsTerminal {
		fmt.Print("\r\033[K")
	}
}

// Notice prints a transient status line: in-place on a terminal, a plain
// line otherwise.
func (t *Terminal) Notice(format string, args ...interface{}) {
	if t.IsTerminal {
		t.ClearLine()
		fmt.Printf(format, args...)
		fmt.Println()
		return
	}
	fmt.Printf(format+"\n", args...)
}
