// Package proc defines the process control entries consumed by the trap
// and scheduling code.
package proc

import (
	"sync/atomic"

	"gopherv/kernel/cpu"
	"gopherv/kernel/gate"
	"gopherv/kernel/mm"
	"gopherv/kernel/mm/vmm"
	"gopherv/kernel/sync"
)

// State describes the execution state of a process.
type State int

const (
	Unused State = iota
	Runnable
	Running
	Sleeping
	Zombie
)

// Proc is the control entry for a single process.
type Proc struct {
	// Lock guards State.
	Lock sync.Spinlock

	PID   int
	Name  string
	State State

	// TF points to the process's trap frame. Exactly one valid frame
	// exists per process while it is not executing the trampoline.
	TF *gate.Frame

	// KStack is the base of the process's kernel stack.
	KStack uintptr

	// PageTable is the process's address space.
	PageTable *mm.PageTable

	// RegionLock guards Regions and serializes page-fault resolution
	// for this process only; faults of different processes resolve
	// concurrently.
	RegionLock sync.Spinlock
	Regions    []vmm.Region

	ExitCode int

	killed uint32
}

// Kill flags the process for termination. The process is terminated before
// it next enters user mode, never in the middle of a kernel trap.
func (p *Proc) Kill() {
	atomic.StoreUint32(&p.killed, 1)
}

// Killed returns true if the process has been flagged for termination.
func (p *Proc) Killed() bool {
	return atomic.LoadUint32(&p.killed) != 0
}

var nextPID int32

// New allocates a process control entry with a fresh pid, trap frame and
// address space.
func New(name string) *Proc {
	return &Proc{
		PID:       int(atomic.AddInt32(&nextPID, 1)),
		Name:      name,
		State:     Runnable,
		TF:        new(gate.Frame),
		PageTable: mm.NewPageTable(),
	}
}

// current tracks the process scheduled on each hart.
var current [cpu.MaxHarts]*Proc

// Current returns the process scheduled on the current hart, or nil if the
// hart is idle.
func Current() *Proc {
	return current[cpu.ID()]
}

// SetCurrent records p as the process scheduled on the current hart.
func SetCurrent(p *Proc) {
	current[cpu.ID()] = p
}
