// Package uart drives the ns16550a console UART of the virt machine. The
// receive side is fed by the machine (InjectRx) and drained by the
// interrupt handler; the transmit side implements io.Writer so the active
// UART can serve as the kfmt output sink.
package uart

import (
	"io"

	"gopherv/device"
	"gopherv/kernel"
	"gopherv/kernel/sync"
)

// UART models the console UART.
type UART struct {
	lock sync.Spinlock

	// rx holds bytes received on the wire but not yet drained by the
	// interrupt handler.
	rx []byte

	// input holds received bytes after interrupt processing, ready for
	// consumers.
	input []byte

	// tx receives every transmitted byte. A nil sink discards output.
	tx io.Writer
}

// the active console UART.
var dev = &UART{}

// Active returns the console UART instance.
func Active() *UART {
	return dev
}

// DriverName returns the name of the driver.
func (u *UART) DriverName() string {
	return "ns16550a"
}

// DriverVersion returns the driver version.
func (u *UART) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes the device driver.
func (u *UART) DriverInit(_ io.Writer) *kernel.Error {
	return nil
}

// SetTransmitSink registers the writer that receives transmitted bytes.
func (u *UART) SetTransmitSink(w io.Writer) {
	u.lock.Acquire()
	u.tx = w
	u.lock.Release()
}

// Write transmits len(p) bytes out of the UART.
func (u *UART) Write(p []byte) (int, error) {
	u.lock.Acquire()
	w := u.tx
	u.lock.Release()

	if w == nil {
		return len(p), nil
	}

	return w.Write(p)
}

// InjectRx models the arrival of data on the receive line. The machine
// raises the UART's interrupt source after injecting.
func (u *UART) InjectRx(p []byte) {
	u.lock.Acquire()
	u.rx = append(u.rx, p...)
	u.lock.Release()
}

// Input drains and returns the bytes received so far.
func (u *UART) Input() []byte {
	u.lock.Acquire()
	in := u.input
	u.input = nil
	u.lock.Release()

	return in
}

// HandleInterrupt services a receive interrupt on the console UART: every
// pending byte is moved to the input buffer and echoed back to the
// transmit side.
func HandleInterrupt() {
	dev.lock.Acquire()
	pending := dev.rx
	dev.rx = nil
	dev.input = append(dev.input, pending...)
	w := dev.tx
	dev.lock.Release()

	if w != nil && len(pending) > 0 {
		w.Write(pending)
	}
}

func probeForUART() device.Driver {
	return dev
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Probe: probeForUART,
	})
}
