package gate

// Cause describes the value of the scause CSR for a single trap. Bit 63
// flags an interrupt; the remaining bits select the cause code. A Cause is
// read fresh from the hardware for each trap and never stored.
type Cause uint64

// causeInterrupt is the interrupt flag of the scause CSR.
const causeInterrupt = Cause(1) << 63

// Interrupt cause codes.
const (
	IntSupervisorSoftware = uint64(1)
	IntSupervisorTimer    = uint64(5)
	IntSupervisorExternal = uint64(9)
)

// Exception cause codes.
const (
	ExcEcallUser            = uint64(8)
	ExcInstructionPageFault = uint64(12)
	ExcLoadPageFault        = uint64(13)
	ExcStorePageFault       = uint64(15)
)

// InterruptCause returns the Cause value for the given interrupt code.
func InterruptCause(code uint64) Cause {
	return causeInterrupt | Cause(code)
}

// IsInterrupt returns true if the interrupt flag of the cause is set.
func (c Cause) IsInterrupt() bool {
	return c&causeInterrupt != 0
}

// Code returns the cause code with the interrupt flag stripped.
func (c Cause) Code() uint64 {
	return uint64(c &^ causeInterrupt)
}

// IsSyscall returns true if the cause describes an environment call from
// user mode.
func (c Cause) IsSyscall() bool {
	return c == Cause(ExcEcallUser)
}

// IsPageFault returns true if the cause describes an instruction, load or
// store page fault.
func (c Cause) IsPageFault() bool {
	if c.IsInterrupt() {
		return false
	}

	code := c.Code()
	return code == ExcInstructionPageFault || code == ExcLoadPageFault || code == ExcStorePageFault
}

var intrDesc = [16]string{
	"user software interrupt",
	"supervisor software interrupt",
	"<reserved for future standard use>",
	"<reserved for future standard use>",
	"user timer interrupt",
	"supervisor timer interrupt",
	"<reserved for future standard use>",
	"<reserved for future standard use>",
	"user external interrupt",
	"supervisor external interrupt",
	"<reserved for future standard use>",
	"<reserved for future standard use>",
	"<reserved for future standard use>",
	"<reserved for future standard use>",
	"<reserved for future standard use>",
	"<reserved for future standard use>",
}

var excDesc = [16]string{
	"instruction address misaligned",
	"instruction access fault",
	"illegal instruction",
	"breakpoint",
	"load address misaligned",
	"load access fault",
	"store/AMO address misaligned",
	"store/AMO access fault",
	"environment call from U-mode",
	"environment call from S-mode",
	"<reserved for future standard use>",
	"<reserved for future standard use>",
	"instruction page fault",
	"load page fault",
	"<reserved for future standard use>",
	"store/AMO page fault",
}

// Desc returns a human-readable description for the cause, suitable for
// trap diagnostics.
func (c Cause) Desc() string {
	code := c.Code()

	if c.IsInterrupt() {
		if code < uint64(len(intrDesc)) {
			return intrDesc[code]
		}
		return "<reserved for platform use>"
	}

	switch {
	case code < uint64(len(excDesc)):
		return excDesc[code]
	case code <= 23:
		return "<reserved for future standard use>"
	case code <= 31:
		return "<reserved for custom use>"
	case code <= 47:
		return "<reserved for future standard use>"
	case code <= 63:
		return "<reserved for custom use>"
	default:
		return "<reserved for future standard use>"
	}
}
