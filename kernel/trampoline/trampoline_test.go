package trampoline

import (
	"testing"

	"gopherv/kernel"
	"gopherv/kernel/cpu"
	"gopherv/kernel/gate"
)

func TestEnterUserModeActivatesAddressSpaceAndInvokesTarget(t *testing.T) {
	var (
		gotFrame *gate.Frame
		gotSatp  uint64
		frame    = &gate.Frame{Epc: 0x1000}
	)

	defer func() {
		SetUserModeTarget(nil)
		cpu.SetActiveHart(0)
		cpu.WriteSatp(0)

		// With no further user-mode target the hart halts.
		if err, ok := recover().(*kernel.Error); !ok || err.Module != "cpu" {
			t.Errorf("expected the hart to halt after the target returned; got %v", err)
		}

		if gotFrame != frame || gotSatp != 42 {
			t.Errorf("expected target to receive (frame, 42); got (%v, %d)", gotFrame, gotSatp)
		}
	}()

	cpu.SetActiveHart(0)
	SetUserModeTarget(func(tf *gate.Frame, satp uint64) {
		gotFrame = tf
		gotSatp = satp

		if cpu.ReadSatp() != satp {
			t.Errorf("expected satp to be active before the target runs")
		}
	})

	EnterUserMode(frame, 42)
}
