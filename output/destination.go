package output

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Destination is the stream events are written to. Closing it finishes the
// gzip stream, if any, then closes the file; stdout is left open.
type Destination struct {
	io.Writer

	closers []io.Closer
}

// OpenDestination opens path for writing. An empty path or "-" is stdout.
// appendMode appends to an existing file instead of truncating it, and
// compress wraps the stream in gzip.
func OpenDestination(path string, appendMode, compress bool) (*Destination, error) {
	d := &Destination{}
	if path == "" || path == "-" {
		d.Writer = os.Stdout
	} else {
		flags := os.O_WRONLY | os.O_CREATE
		if appendMode {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening output: %w", err)
		}
		d.Writer = f
		d.closers = append(d.closers, f)
	}

	if compress {
		zw := gzip.NewWriter(d.Writer)
		d.Writer = zw
		d.closers = append([]io.Closer{zw}, d.closers...)
	}
	return d, nil
}

func (d *Destination) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	d.closers = nil
	return first
}
