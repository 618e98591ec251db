// ABOUTME: Asciicast v2 writer used by the recording subcommand
// ABOUTME: Emits the header line followed by one JSON array per output chunk

package asciicast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Writer streams an asciicast v2 file.
type Writer struct {
	w *bufio.Writer
}

// NewWriter writes the header line and returns a ready writer.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	if h.Version == 0 {
		h.Version = 2
	}
	bw := bufio.NewWriter(w)
	head, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("encoding header: %w", err)
	}
	if _, err := bw.Write(append(head, '\n')); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &Writer{w: bw}, nil
}

// WriteEvent appends one event line.
func (w *Writer) WriteEvent(t float64, typ string, data string) error {
	line, err := json.Marshal([]any{round6(t), typ, data})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	if _, err := w.w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// round6 trims timestamps to microsecond precision, matching what other
// asciicast producers emit.
func round6(t float64) float64 {
	return float64(int64(t*1e6+0.5)) / 1e6
}
