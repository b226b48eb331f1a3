package gate

import (
	"io"

	"gopherv/kernel/kfmt"
)

// Trap vector tokens. On hardware these are the addresses of the kernelvec
// entry point and of the uservec/userret entry points inside the trampoline
// page (the last page of the Sv39 address space, mapped identically in
// every address space). The simulated machine dispatches on the token
// values.
const (
	// KernelVec is the trap vector used while executing in supervisor
	// mode.
	KernelVec = uint64(0xffffffff80000000)

	// TrampolineUserVec is the trap vector used while executing in user
	// mode. It saves the user registers into the trap frame, switches to
	// the kernel page table and jumps to the address stored in the
	// frame's KernelTrap slot.
	TrampolineUserVec = uint64(0x3ffffff000)

	// UserTrapEntry is the kernel-side re-entry point invoked by the
	// trampoline after a user-mode trap.
	UserTrapEntry = uint64(0xffffffff80000400)
)

// Frame is the per-process trap frame. It lives on a dedicated page mapped
// into both the user and the kernel address space and carries the
// architectural state that crosses the user/kernel boundary. The field
// order is an ABI contract shared with the trampoline; do not reorder.
type Frame struct {
	// KernelSatp holds the kernel page-table token installed by the
	// trampoline when entering the kernel.
	KernelSatp uint64

	// KernelSp holds the top of the process's kernel stack.
	KernelSp uint64

	// KernelTrap holds the kernel-side re-entry address the trampoline
	// jumps to after saving user state.
	KernelTrap uint64

	// Epc holds the saved user program counter.
	Epc uint64

	// HartID holds the id of the hart the process last trapped on.
	HartID uint64

	// Saved user general-purpose registers.
	RA  uint64
	SP  uint64
	GP  uint64
	TP  uint64
	T0  uint64
	T1  uint64
	T2  uint64
	S0  uint64
	S1  uint64
	A0  uint64
	A1  uint64
	A2  uint64
	A3  uint64
	A4  uint64
	A5  uint64
	A6  uint64
	A7  uint64
	S2  uint64
	S3  uint64
	S4  uint64
	S5  uint64
	S6  uint64
	S7  uint64
	S8  uint64
	S9  uint64
	S10 uint64
	S11 uint64
	T3  uint64
	T4  uint64
	T5  uint64
	T6  uint64
}

// DumpTo outputs the saved register contents to w.
func (f *Frame) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "epc = %016x\n", f.Epc)
	kfmt.Fprintf(w, "ra  = %016x sp  = %016x\n", f.RA, f.SP)
	kfmt.Fprintf(w, "gp  = %016x tp  = %016x\n", f.GP, f.TP)
	kfmt.Fprintf(w, "t0  = %016x t1  = %016x\n", f.T0, f.T1)
	kfmt.Fprintf(w, "t2  = %016x s0  = %016x\n", f.T2, f.S0)
	kfmt.Fprintf(w, "s1  = %016x a0  = %016x\n", f.S1, f.A0)
	kfmt.Fprintf(w, "a1  = %016x a2  = %016x\n", f.A1, f.A2)
	kfmt.Fprintf(w, "a3  = %016x a4  = %016x\n", f.A3, f.A4)
	kfmt.Fprintf(w, "a5  = %016x a6  = %016x\n", f.A5, f.A6)
	kfmt.Fprintf(w, "a7  = %016x s2  = %016x\n", f.A7, f.S2)
	kfmt.Fprintf(w, "s3  = %016x s4  = %016x\n", f.S3, f.S4)
	kfmt.Fprintf(w, "s5  = %016x s6  = %016x\n", f.S5, f.S6)
	kfmt.Fprintf(w, "s7  = %016x s8  = %016x\n", f.S7, f.S8)
	kfmt.Fprintf(w, "s9  = %016x s10 = %016x\n", f.S9, f.S10)
	kfmt.Fprintf(w, "s11 = %016x t3  = %016x\n", f.S11, f.T3)
	kfmt.Fprintf(w, "t4  = %016x t5  = %016x\n", f.T4, f.T5)
	kfmt.Fprintf(w, "t6  = %016x\n", f.T6)
}
