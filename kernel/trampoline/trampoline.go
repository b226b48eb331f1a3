// Package trampoline models the boundary-crossing trampoline: the fixed,
// identically-mapped code region that switches address spaces and
// privilege modes. On hardware its entry points are reached through the
// vector tokens in the gate package; here the machine supplies the
// user-mode side through a registered target.
package trampoline

import (
	"gopherv/kernel/cpu"
	"gopherv/kernel/gate"
)

// userModeFn is the machine-side target that executes user code once the
// handoff completes.
var userModeFn func(tf *gate.Frame, satp uint64)

// SetUserModeTarget registers the machine-side target invoked by
// EnterUserMode after the address-space switch.
func SetUserModeTarget(fn func(tf *gate.Frame, satp uint64)) {
	userModeFn = fn
}

// EnterUserMode activates the supplied page-table token, restores the user
// state recorded in the trap frame and transfers control into user mode.
// It never returns; if no user-mode target is registered the hart halts.
func EnterUserMode(tf *gate.Frame, satp uint64) {
	cpu.WriteSatp(satp)

	if userModeFn != nil {
		userModeFn(tf, satp)
	}

	cpu.Halt()
}
