// Package syscall dispatches environment calls from user mode. The syscall
// number travels in a7 and the return value in a0; richer argument decoding
// is up to the individual handlers.
package syscall

import (
	"gopherv/kernel/clock"
	"gopherv/kernel/kfmt"
	"gopherv/kernel/proc"
	"gopherv/kernel/sched"
)

// Syscall numbers.
const (
	SysExit   = uint64(2)
	SysGetPID = uint64(11)
	SysSleep  = uint64(13)
	SysUptime = uint64(14)
)

var (
	// exitFn is used by tests.
	exitFn = sched.Exit
)

// Dispatch routes the environment call recorded in the trap frame of p to
// its handler. Handlers may terminate the process.
func Dispatch(p *proc.Proc) {
	switch num := p.TF.A7; num {
	case SysExit:
		exitFn(int(int64(p.TF.A0)))
	case SysGetPID:
		p.TF.A0 = uint64(p.PID)
	case SysSleep:
		p.TF.A0 = sleep(p, p.TF.A0)
	case SysUptime:
		p.TF.A0 = clock.Ticks()
	default:
		kfmt.Printf("%d %s: unknown syscall %d\n", p.PID, p.Name, num)
		p.TF.A0 = ^uint64(0)
	}
}

// sleep blocks the calling process until n ticks have elapsed or the
// process is flagged killed.
func sleep(p *proc.Proc, n uint64) uint64 {
	cur := clock.Ticks()
	deadline := cur + n

	for cur < deadline {
		if p.Killed() {
			return ^uint64(0)
		}
		cur = clock.Wait(cur)
	}

	return 0
}
