package kfmt

import "io"

// ringBufferSize defines the size of the early print ring buffer. It is
// large enough to hold the boot output produced before the console driver
// is initialized and must be a power of 2.
const ringBufferSize = 2048

// ringBuffer buffers the output of Printf before a sink is registered.
// Once the buffer fills up, each new write overwrites the oldest data.
type ringBuffer struct {
	buffer [ringBufferSize]byte
	rIndex int
	wIndex int
	used   int
}

// Write writes len(p) bytes from p to the ring buffer. If the buffer is
// full, the oldest buffered bytes are dropped to make room.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[rb.wIndex] = b
		rb.wIndex = (rb.wIndex + 1) & (ringBufferSize - 1)
		if rb.used == ringBufferSize {
			rb.rIndex = rb.wIndex
		} else {
			rb.used++
		}
	}

	return len(p), nil
}

// Read reads up to len(p) buffered bytes into p. It returns the number of
// bytes read and io.EOF once the buffer has been fully drained.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.used == 0 {
		return 0, io.EOF
	}

	var n int
	for ; n < len(p) && rb.used > 0; n++ {
		p[n] = rb.buffer[rb.rIndex]
		rb.rIndex = (rb.rIndex + 1) & (ringBufferSize - 1)
		rb.used--
	}

	return n, nil
}
