package cli

import (
	"fmt"
	"io"
	"sync"
)

// toast prints transient error messages to stderr, the terminal stand-in for
// a UI toast.
type toast struct {
	mu     sync.Mutex
	w      io.Writer
	colors palette
	shown  int
}

func newToast(w io.Writer) *toast {
	return &toast{w: w, colors: paletteFor(w)}
}

func (t *toast) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shown++
	fmt.Fprintln(t.w, t.colors.paint(Red, "✗ "+message))
}

func (t *toast) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shown
}
