// Package virtio drives the virtio-mmio block devices of the virt
// machine. The machine exposes two block device slots whose completion
// interrupts arrive on consecutive PLIC sources.
package virtio

import (
	"io"

	"gopherv/device"
	"gopherv/kernel"
	"gopherv/kernel/sync"
)

// BlockSlots is the number of virtio-mmio block device slots.
const BlockSlots = 2

var errBadSlot = &kernel.Error{Module: "virtio", Message: "block slot out of range"}

// BlockDev models one virtio block device slot. Requests are queued by
// Submit and retired when the device raises its completion interrupt.
type BlockDev struct {
	lock sync.Spinlock
	slot int

	// inflight holds the completion channels of submitted requests in
	// submission order.
	inflight []chan struct{}

	// completed counts retired requests.
	completed uint64
}

var blockDevs [BlockSlots]*BlockDev

// Block returns the block device in the given slot.
func Block(slot int) (*BlockDev, *kernel.Error) {
	if slot < 0 || slot >= BlockSlots {
		return nil, errBadSlot
	}

	return blockDevs[slot], nil
}

// DriverName returns the name of the driver.
func (d *BlockDev) DriverName() string {
	return "virtio-blk"
}

// DriverVersion returns the driver version.
func (d *BlockDev) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes the device driver.
func (d *BlockDev) DriverInit(_ io.Writer) *kernel.Error {
	return nil
}

// Submit queues a request to the device and returns a channel that is
// closed once the device signals completion.
func (d *BlockDev) Submit() <-chan struct{} {
	done := make(chan struct{})

	d.lock.Acquire()
	d.inflight = append(d.inflight, done)
	d.lock.Release()

	return done
}

// Completed returns the number of requests the device has retired.
func (d *BlockDev) Completed() uint64 {
	d.lock.Acquire()
	n := d.completed
	d.lock.Release()

	return n
}

// HandleInterrupt services a completion interrupt for the block device in
// the given slot, retiring every in-flight request. Interrupts for
// unknown slots are ignored.
func HandleInterrupt(slot int) {
	d, err := Block(slot)
	if err != nil {
		return
	}

	d.lock.Acquire()
	pending := d.inflight
	d.inflight = nil
	d.completed += uint64(len(pending))
	d.lock.Release()

	for _, done := range pending {
		close(done)
	}
}

func init() {
	for slot := 0; slot < BlockSlots; slot++ {
		blockDevs[slot] = &BlockDev{slot: slot}

		dev := blockDevs[slot]
		device.RegisterDriver(&device.DriverInfo{
			Order: device.DetectOrderNormal,
			Probe: func() device.Driver { return dev },
		})
	}
}
