// Package clock maintains the global tick counter and the liveness
// watchdog that guards it.
package clock

import (
	"gopherv/kernel"
	"gopherv/kernel/kfmt"
	"gopherv/kernel/sync"
)

var (
	ticks struct {
		lock    sync.Spinlock
		value   uint64
		waiters []chan struct{}
	}

	watchdog struct {
		lock      sync.Spinlock
		threshold uint64
		baseline  uint64
	}

	errWatchdogStall = &kernel.Error{Module: "clock", Message: "tick source stalled beyond the watchdog bound"}
)

// guard witnesses that both the watchdog lock and the tick lock are held.
// It can only be obtained through lockBoth, which acquires the two locks in
// the one permitted order (watchdog first, ticks second); holders release
// through unlock, which drops them in reverse order.
type guard struct{}

func lockBoth() guard {
	watchdog.lock.Acquire()
	ticks.lock.Acquire()
	return guard{}
}

func (guard) unlock() {
	ticks.lock.Release()
	watchdog.lock.Release()
}

// Ticks returns the current value of the tick counter.
func Ticks() uint64 {
	ticks.lock.Acquire()
	v := ticks.value
	ticks.lock.Release()
	return v
}

// Wait blocks until the tick counter advances past seen and returns the
// counter value observed after waking up.
func Wait(seen uint64) uint64 {
	for {
		ticks.lock.Acquire()
		if ticks.value > seen {
			v := ticks.value
			ticks.lock.Release()
			return v
		}

		ch := make(chan struct{})
		ticks.waiters = append(ticks.waiters, ch)
		ticks.lock.Release()
		<-ch
	}
}

// SetWatchdog configures the watchdog stall bound in ticks and records the
// current counter value as the new baseline. A threshold of 0 disables the
// watchdog.
func SetWatchdog(threshold uint64) {
	g := lockBoth()
	watchdog.threshold = threshold
	watchdog.baseline = ticks.value
	g.unlock()
}

// Feed records the current tick counter as the watchdog baseline,
// signalling that global progress is still being made.
func Feed() {
	g := lockBoth()
	watchdog.baseline = ticks.value
	g.unlock()
}

// Tick advances the tick counter by one and wakes every flow blocked in
// Wait. It is invoked once per timer interrupt and only on the designated
// hart. If a nonzero watchdog threshold is configured and the counter has
// advanced more than threshold ticks past the recorded baseline, the
// system halts: a stalled tick consumer is unrecoverable and never
// retried.
func Tick() {
	g := lockBoth()

	if watchdog.threshold != 0 && ticks.value-watchdog.baseline > watchdog.threshold {
		kfmt.Printf("clock: no watchdog update for %d ticks (threshold %d)\n",
			ticks.value-watchdog.baseline, watchdog.threshold)
		panic(errWatchdogStall)
	}

	ticks.value++
	for _, ch := range ticks.waiters {
		close(ch)
	}
	ticks.waiters = nil

	g.unlock()
}
