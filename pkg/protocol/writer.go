package protocol

import (
	"bufio"
	"fmt"
	"io"
)

// Writer emits one reply line per turn.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteLine writes line followed by a newline and flushes, so the referee sees
// the reply before the turn deadline.
func (w *Writer) WriteLine(line string) error {
	if _, err := fmt.Fprintln(w.w, line); err != nil {
		return fmt.Errorf("protocol: write: %w", err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("protocol: flush: %w", err)
	}
	return nil
}
