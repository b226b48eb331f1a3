// Package cpu models the riscv64 harts that the kernel executes on. Each
// hart owns a file of supervisor-mode CSRs; the accessors below operate on
// the CSR file of the hart selected via SetActiveHart. The kernel runs one
// trap-handling flow per hart so accesses to a hart's CSR file are always
// sequential.
package cpu

import (
	"sync/atomic"

	"gopherv/kernel"
)

// MaxHarts defines the maximum number of harts supported by the kernel.
const MaxHarts = 8

// Bits of the sstatus CSR.
const (
	// StatusSIE enables supervisor-mode interrupts while set.
	StatusSIE = uint64(1) << 1

	// StatusSPIE causes interrupts to be re-enabled in the privilege
	// mode entered by the next sret.
	StatusSPIE = uint64(1) << 5

	// StatusSPP records the privilege mode active before the last trap;
	// set indicates supervisor mode, clear indicates user mode.
	StatusSPP = uint64(1) << 8
)

// Bits of the sip CSR.
const (
	// SipSSIP indicates a pending supervisor software interrupt. The
	// machine-mode timer vector sets it to forward timer interrupts to
	// supervisor mode; the interrupt handler must clear it.
	SipSSIP = uint64(1) << 1
)

// csrFile holds the supervisor-mode CSRs of a single hart.
type csrFile struct {
	sstatus uint64
	sepc    uint64
	scause  uint64
	stval   uint64
	stvec   uint64
	sip     uint64
	satp    uint64
}

var (
	csrs       [MaxHarts]csrFile
	activeHart uint32

	errHartHalted = &kernel.Error{Module: "cpu", Message: "hart halted"}
)

// ID returns the id of the hart executing the current flow.
func ID() uint64 {
	return uint64(atomic.LoadUint32(&activeHart))
}

// SetActiveHart selects the hart whose CSR file the package accessors
// operate on. It is invoked by the machine when it switches the executing
// hart and by tests.
func SetActiveHart(id uint64) {
	atomic.StoreUint32(&activeHart, uint32(id))
}

func active() *csrFile {
	return &csrs[atomic.LoadUint32(&activeHart)]
}

// ReadSStatus returns the value of the sstatus CSR.
func ReadSStatus() uint64 { return active().sstatus }

// WriteSStatus updates the sstatus CSR.
func WriteSStatus(v uint64) { active().sstatus = v }

// ReadSEpc returns the value of the sepc CSR; the pc active when the last
// trap was taken.
func ReadSEpc() uint64 { return active().sepc }

// WriteSEpc updates the sepc CSR. The next sret resumes execution at this
// address.
func WriteSEpc(v uint64) { active().sepc = v }

// ReadSCause returns the value of the scause CSR; the cause of the last
// trap taken by this hart.
func ReadSCause() uint64 { return active().scause }

// WriteSCause updates the scause CSR. It is written by the machine when a
// trap is raised.
func WriteSCause(v uint64) { active().scause = v }

// ReadSTval returns the value of the stval CSR; trap-specific information
// such as the faulting address of a page fault.
func ReadSTval() uint64 { return active().stval }

// WriteSTval updates the stval CSR. It is written by the machine when a
// trap is raised.
func WriteSTval(v uint64) { active().stval = v }

// ReadSTvec returns the value of the stvec CSR; the address of the active
// trap vector.
func ReadSTvec() uint64 { return active().stvec }

// WriteSTvec updates the stvec CSR, re-arming the hart's trap vector.
func WriteSTvec(v uint64) { active().stvec = v }

// ReadSip returns the value of the sip CSR.
func ReadSip() uint64 { return active().sip }

// WriteSip updates the sip CSR.
func WriteSip(v uint64) { active().sip = v }

// ReadSatp returns the value of the satp CSR; the active page-table token.
func ReadSatp() uint64 { return active().satp }

// WriteSatp updates the satp CSR.
func WriteSatp(v uint64) { active().satp = v }

// EnableInterrupts enables supervisor-mode interrupt handling on the
// current hart.
func EnableInterrupts() {
	active().sstatus |= StatusSIE
}

// DisableInterrupts disables supervisor-mode interrupt handling on the
// current hart.
func DisableInterrupts() {
	active().sstatus &^= StatusSIE
}

// InterruptsEnabled returns true if supervisor-mode interrupts are enabled
// on the current hart.
func InterruptsEnabled() bool {
	return active().sstatus&StatusSIE != 0
}

// Halt stops instruction execution on the current hart. Calls to Halt never
// return; on the simulated machine the halt surfaces as a panic carrying a
// kernel error so that a test harness can observe it.
func Halt() {
	panic(errHartHalted)
}
