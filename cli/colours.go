package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m"

	RedInverse = "\033[7;31m"

	ResetColor = "\033[0m"
)

// palette paints text only when the writer is a terminal and NO_COLOR is unset.
type palette struct {
	enabled bool
}

func paletteFor(w io.Writer) palette {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return palette{}
	}
	return palette{enabled: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

func (p palette) paint(colour, s string) string {
	if !p.enabled {
		return s
	}
	return colour + s + ResetColor
}
