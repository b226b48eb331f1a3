// Package plic models the platform-level interrupt controller of the virt
// machine. Devices raise interrupt sources; harts claim a pending source,
// service it and signal completion. Every hart receives the external
// interrupt signal but only one wins the claim; the others see a claim of 0,
// which is expected and not an error.
package plic

import "gopherv/kernel/sync"

// Interrupt sources of the virt machine.
const (
	// IRQVirtio0 and IRQVirtio1 are the two virtio block device slots.
	IRQVirtio0 = uint32(1)
	IRQVirtio1 = uint32(2)

	// IRQUart0 is the console UART.
	IRQUart0 = uint32(10)
)

var state struct {
	lock      sync.Spinlock
	pending   []uint32
	inService map[uint32]bool
}

// Raise marks an interrupt source as pending. It is invoked by devices (or
// by the machine on their behalf). A source that is currently being
// serviced is queued again and delivered after its completion.
func Raise(irq uint32) {
	if irq == 0 {
		return
	}

	state.lock.Acquire()
	state.pending = append(state.pending, irq)
	state.lock.Release()
}

// Claim returns the next pending interrupt source and marks it as being
// serviced, or 0 if nothing is pending.
func Claim() uint32 {
	state.lock.Acquire()
	defer state.lock.Release()

	if state.inService == nil {
		state.inService = make(map[uint32]bool)
	}

	for idx, irq := range state.pending {
		if state.inService[irq] {
			continue
		}

		state.pending = append(state.pending[:idx], state.pending[idx+1:]...)
		state.inService[irq] = true
		return irq
	}

	return 0
}

// Complete signals that the handler for the claimed interrupt source has
// finished, allowing the source to be delivered again. Completing a source
// that was never claimed has no effect.
func Complete(irq uint32) {
	state.lock.Acquire()
	delete(state.inService, irq)
	state.lock.Release()
}
