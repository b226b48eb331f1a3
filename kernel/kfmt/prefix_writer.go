package kfmt

import "io"

// PrefixWriter is an io.Writer that inserts Prefix at the beginning of each
// line it emits to Sink.
type PrefixWriter struct {
	// Sink specifies the io.Writer where all writes are sent.
	Sink io.Writer

	// Prefix contains the prefix injected at the beginning of each line.
	Prefix []byte

	bytesAfterPrefix int
}

// Write writes len(p) bytes from p to the underlying sink injecting the
// configured prefix at the beginning of each line.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written int

	for start, cur := 0, 0; cur < len(p); cur++ {
		if w.bytesAfterPrefix == 0 {
			if _, err := w.Sink.Write(w.Prefix); err != nil {
				return written, err
			}
		}

		if p[cur] == '\n' {
			n, err := w.Sink.Write(p[start : cur+1])
			written += n
			w.bytesAfterPrefix = 0
			start = cur + 1
			if err != nil {
				return written, err
			}
			continue
		}

		w.bytesAfterPrefix++
		if cur == len(p)-1 {
			n, err := w.Sink.Write(p[start:])
			written += n
			if err != nil {
				return written, err
			}
		}
	}

	return written, nil
}
