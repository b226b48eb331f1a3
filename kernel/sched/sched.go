// Package sched implements the cooperative scheduler consumed by the trap
// code: Yield suspends the calling flow in favor of the next runnable one
// and Exit terminates it. Each scheduled flow runs in its own goroutine;
// handing the hart over is a channel handoff between the parked flows.
package sched

import (
	"gopherv/kernel"
	"gopherv/kernel/cpu"
	"gopherv/kernel/proc"
	"gopherv/kernel/sync"
)

type flow struct {
	p      *proc.Proc
	fn     func()
	resume chan struct{}
}

var (
	runq struct {
		lock  sync.Spinlock
		queue []*flow
	}

	// running tracks the flow that owns each hart.
	running [cpu.MaxHarts]*flow

	// idleResume carries the hart back to its idle loop once the last
	// runnable flow exits.
	idleResume [cpu.MaxHarts]chan struct{}

	errExitOutsideFlow = &kernel.Error{Module: "sched", Message: "exit outside a scheduled flow"}
)

// activate marks f as the flow owning the current hart.
func activate(f *flow) {
	running[cpu.ID()] = f
	proc.SetCurrent(f.p)

	f.p.Lock.Acquire()
	f.p.State = proc.Running
	f.p.Lock.Release()
}

// Launch enqueues a new runnable flow executing fn on behalf of p. The flow
// starts once a hart hands control to it and must finish with Exit.
func Launch(p *proc.Proc, fn func()) {
	f := &flow{p: p, fn: fn, resume: make(chan struct{}, 1)}

	go func() {
		<-f.resume
		activate(f)
		f.fn()
		Exit(0)
	}()

	runq.lock.Acquire()
	runq.queue = append(runq.queue, f)
	runq.lock.Release()
}

// Schedule is the hart's idle loop: it hands the hart to the next runnable
// flow and regains it once every launched flow has exited. It returns when
// no runnable flows remain.
func Schedule() {
	hart := cpu.ID()
	idleResume[hart] = make(chan struct{}, 1)

	for {
		runq.lock.Acquire()
		if len(runq.queue) == 0 {
			runq.lock.Release()
			return
		}
		next := runq.queue[0]
		runq.queue = runq.queue[1:]
		runq.lock.Release()

		next.resume <- struct{}{}
		<-idleResume[hart]
	}
}

// Yield suspends the calling flow and hands the hart to the next runnable
// flow, if any. The caller resumes later, possibly on a different hart and
// after other traps have run.
func Yield() {
	self := running[cpu.ID()]
	if self == nil {
		return
	}

	runq.lock.Acquire()
	if len(runq.queue) == 0 {
		// Nothing else to run; keep the hart.
		runq.lock.Release()
		return
	}

	next := runq.queue[0]
	runq.queue = runq.queue[1:]

	self.p.Lock.Acquire()
	self.p.State = proc.Runnable
	self.p.Lock.Release()
	runq.queue = append(runq.queue, self)
	runq.lock.Release()

	next.resume <- struct{}{}
	<-self.resume
	activate(self)
}

// Exit terminates the calling flow with the supplied status code and hands
// the hart to the next runnable flow. Exit never returns.
func Exit(code int) {
	self := running[cpu.ID()]
	if self == nil {
		panic(errExitOutsideFlow)
	}

	self.p.Lock.Acquire()
	self.p.State = proc.Zombie
	self.p.ExitCode = code
	self.p.Lock.Release()

	running[cpu.ID()] = nil
	proc.SetCurrent(nil)

	runq.lock.Acquire()
	var next *flow
	if len(runq.queue) > 0 {
		next = runq.queue[0]
		runq.queue = runq.queue[1:]
	}
	runq.lock.Release()

	if next != nil {
		next.resume <- struct{}{}
	} else if idleResume[cpu.ID()] != nil {
		idleResume[cpu.ID()] <- struct{}{}
	}

	select {}
}
