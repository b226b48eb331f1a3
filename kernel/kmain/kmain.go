// Package kmain contains the kernel entry points reached once a hart
// completes its early bootstrap and enters supervisor mode.
package kmain

import (
	"gopherv/kernel/bootargs"
	"gopherv/kernel/clock"
	"gopherv/kernel/cpu"
	"gopherv/kernel/hal"
	"gopherv/kernel/kfmt"
	"gopherv/kernel/sched"
	"gopherv/kernel/trap"
)

// Kmain is the entry point of the boot hart. It parses the boot command
// line, arms the trap vector, probes the hardware, configures the tick
// watchdog and enters the scheduler with interrupts enabled.
//
// Kmain returns only when no runnable flows remain.
func Kmain(hartID uint64, cmdLine string) {
	cpu.SetActiveHart(hartID)
	bootargs.Set(cmdLine)
	trap.InitHart()
	hal.DetectHardware()

	if ticks, ok := bootargs.GetUint("watchdog"); ok {
		clock.SetWatchdog(ticks)
	}

	kfmt.Printf("main: starting scheduler on hart %d\n", hartID)
	cpu.EnableInterrupts()
	sched.Schedule()
}

// KmainSecondary is the entry point of the non-boot harts. The boot hart
// has already parsed the command line and probed the hardware by the time
// the secondary harts are released.
func KmainSecondary(hartID uint64) {
	cpu.SetActiveHart(hartID)
	trap.InitHart()
	cpu.EnableInterrupts()
	sched.Schedule()
}
