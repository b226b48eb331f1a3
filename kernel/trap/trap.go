// Package trap implements the supervisor-mode trap handling core: the
// classification and dispatch of user-mode traps, the invariant-checked
// kernel-mode trap path, device interrupt routing through the PLIC and
// the return-to-user protocol.
package trap

import (
	"gopherv/device/uart"
	"gopherv/device/virtio"
	"gopherv/kernel"
	"gopherv/kernel/clock"
	"gopherv/kernel/cpu"
	"gopherv/kernel/gate"
	"gopherv/kernel/kfmt"
	"gopherv/kernel/mm"
	"gopherv/kernel/mm/vmm"
	"gopherv/kernel/plic"
	"gopherv/kernel/proc"
	"gopherv/kernel/sched"
	"gopherv/kernel/syscall"
	"gopherv/kernel/trampoline"
)

// ecallInsnWidth is the width of the ecall instruction; the saved pc must
// advance past it so the call is not re-executed on return.
const ecallInsnWidth = 4

// tickHart is the hart designated to advance the global tick counter.
// Every hart receives the timer's software interrupt but only this one
// ticks; the others would otherwise multiply the tick rate by the hart
// count.
const tickHart = uint64(0)

var (
	errUserTrapFromSupervisor      = &kernel.Error{Module: "trap", Message: "user trap entry reached from supervisor mode"}
	errKernelTrapFromUser          = &kernel.Error{Module: "trap", Message: "kernel trap entry reached from user mode"}
	errKernelTrapInterruptsEnabled = &kernel.Error{Module: "trap", Message: "kernel trap taken with interrupts enabled"}
	errKernelTrapUnrecognized      = &kernel.Error{Module: "trap", Message: "unrecognized trap in supervisor mode"}
)

// intrResult classifies the outcome of devIntr.
type intrResult int

const (
	// intrNone marks a trap that devIntr did not recognize as an
	// interrupt it handles.
	intrNone intrResult = iota

	// intrDevice marks a serviced external device interrupt.
	intrDevice

	// intrTimer marks a serviced timer interrupt.
	intrTimer
)

// Seams used by tests.
var (
	resolveFaultFn    = vmm.Resolve
	dispatchSyscallFn = syscall.Dispatch
	yieldFn           = sched.Yield
	exitFn            = sched.Exit
	plicClaimFn       = plic.Claim
	plicCompleteFn    = plic.Complete
	consoleIntrFn     = uart.HandleInterrupt
	blockIntrFn       = virtio.HandleInterrupt
	enterUserModeFn   = trampoline.EnterUserMode
)

// InitHart points the current hart's trap vector at the kernel-mode
// entry. It runs once per hart during boot, before interrupts are
// enabled.
func InitHart() {
	cpu.WriteSTvec(gate.KernelVec)
}

// UserTrap handles a trap taken while executing in user mode. The
// trampoline has already saved the user registers into the trap frame of
// the current process and switched to the kernel page table.
func UserTrap() {
	if cpu.ReadSStatus()&cpu.StatusSPP != 0 {
		panic(errUserTrapFromSupervisor)
	}

	// Traps from now on are kernel traps.
	cpu.WriteSTvec(gate.KernelVec)

	p := proc.Current()
	p.TF.Epc = cpu.ReadSEpc()

	cause := gate.Cause(cpu.ReadSCause())
	res := intrNone

	switch {
	case cause.IsSyscall():
		if p.Killed() {
			exitFn(-1)
		}

		// Resume past the ecall, not at it.
		p.TF.Epc += ecallInsnWidth

		// The syscall layer may block; interrupts stay enabled while it
		// runs.
		cpu.EnableInterrupts()
		dispatchSyscallFn(p)
	case cause.IsPageFault():
		handlePageFault(p, cause, cpu.ReadSTval(), cpu.ReadSEpc())
	default:
		if res = devIntr(cause); res == intrNone {
			kfmt.Printf("usertrap: unexpected scause 0x%x (%s) pid=%d\n", uint64(cause), cause.Desc(), p.PID)
			kfmt.Printf("          sepc=0x%x stval=0x%x\n", cpu.ReadSEpc(), cpu.ReadSTval())
			p.Kill()
		}
	}

	if p.Killed() {
		exitFn(-1)
	}

	if res == intrTimer {
		yieldFn()
	}

	UserTrapReturn()
}

// handlePageFault runs the fault resolver for the faulting process and,
// on failure, reports the outcome category and flags the process killed.
func handlePageFault(p *proc.Proc, cause gate.Cause, stval, sepc uint64) bool {
	page := mm.PageFromAddress(uintptr(stval))

	p.RegionLock.Acquire()
	outcome := resolveFaultFn(p.PageTable, p.Regions, page, cause)
	p.RegionLock.Release()

	if outcome == vmm.Resolved {
		return true
	}

	kfmt.Printf("usertrap: page fault (%s) pid=%d (%s) addr=0x%x\n", outcome, p.PID, p.Name, stval)
	kfmt.Printf("          sepc=0x%x stval=0x%x scause=0x%x (%s)\n", sepc, stval, uint64(cause), cause.Desc())
	p.Kill()
	return false
}

// devIntr recognizes and services device and timer interrupts. External
// interrupts are claimed from the PLIC, routed to the owning driver and
// completed; the timer's software interrupt advances the tick counter on
// the designated hart and clears the pending bit on every hart.
func devIntr(cause gate.Cause) intrResult {
	switch {
	case cause.IsInterrupt() && cause.Code() == gate.IntSupervisorExternal:
		irq := plicClaimFn()

		switch irq {
		case 0:
			// Another hart won the claim.
		case plic.IRQUart0:
			consoleIntrFn()
		case plic.IRQVirtio0, plic.IRQVirtio1:
			blockIntrFn(int(irq - plic.IRQVirtio0))
		default:
			// Unrecognized sources are dropped without a handler but
			// still completed below.
		}

		if irq != 0 {
			plicCompleteFn(irq)
		}

		return intrDevice
	case cause == gate.InterruptCause(gate.IntSupervisorSoftware):
		if cpu.ID() == tickHart {
			clock.Tick()
		}

		cpu.WriteSip(cpu.ReadSip() &^ cpu.SipSSIP)

		return intrTimer
	default:
		return intrNone
	}
}

// KernelTrap handles a trap taken while already executing in supervisor
// mode. Only device and timer interrupts are legitimate here; anything
// else indicates a kernel bug and halts the system. The kernelvec entry
// saves only caller-clobbered registers, so sepc and sstatus must be
// restored before returning in case a yield let other traps overwrite
// them.
func KernelTrap() {
	sepc := cpu.ReadSEpc()
	sstatus := cpu.ReadSStatus()

	if sstatus&cpu.StatusSPP == 0 {
		panic(errKernelTrapFromUser)
	}
	if cpu.InterruptsEnabled() {
		panic(errKernelTrapInterruptsEnabled)
	}

	cause := gate.Cause(cpu.ReadSCause())

	res := devIntr(cause)
	if res == intrNone {
		kfmt.Printf("kerneltrap: scause 0x%x (%s)\n", uint64(cause), cause.Desc())
		kfmt.Printf("            sepc=0x%x stval=0x%x\n", sepc, cpu.ReadSTval())
		panic(errKernelTrapUnrecognized)
	}

	if res == intrTimer {
		if p := proc.Current(); p != nil && p.State == proc.Running {
			yieldFn()
		}
	}

	cpu.WriteSEpc(sepc)
	cpu.WriteSStatus(sstatus)
}

// UserTrapReturn prepares the current hart and the current process's trap
// frame for the transition back to user mode and hands control to the
// trampoline. It never returns.
func UserTrapReturn() {
	p := proc.Current()

	// From here until the trampoline re-arms stvec, a trap would be
	// routed to the user-mode vector while still in supervisor mode.
	cpu.DisableInterrupts()
	cpu.WriteSTvec(gate.TrampolineUserVec)

	p.TF.KernelSatp = cpu.ReadSatp()
	p.TF.KernelSp = uint64(p.KStack) + uint64(mm.PageSize)
	p.TF.KernelTrap = gate.UserTrapEntry
	p.TF.HartID = cpu.ID()

	sstatus := cpu.ReadSStatus()
	sstatus &^= cpu.StatusSPP
	sstatus |= cpu.StatusSPIE
	cpu.WriteSStatus(sstatus)

	cpu.WriteSEpc(p.TF.Epc)

	enterUserModeFn(p.TF, p.PageTable.SATP())
}
