package clock

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopherv/kernel/kfmt"
	"gopherv/kernel/sync"
)

func resetClock() {
	ticks.lock = sync.Spinlock{}
	ticks.value = 0
	ticks.waiters = nil
	watchdog.lock = sync.Spinlock{}
	watchdog.threshold = 0
	watchdog.baseline = 0
}

func TestTickAdvancesCounter(t *testing.T) {
	defer resetClock()
	resetClock()

	const n = 10
	for i := 0; i < n; i++ {
		Tick()
	}

	if got := Ticks(); got != n {
		t.Fatalf("expected tick counter to be %d; got %d", n, got)
	}
}

func TestWaitersWakeOnIncrement(t *testing.T) {
	defer resetClock()
	resetClock()

	woken := make(chan uint64, 1)
	registered := make(chan struct{})

	go func() {
		// Register the waiter and signal the test body once the tick
		// lock has been observed free again.
		go func() { woken <- Wait(0) }()
		for {
			ticks.lock.Acquire()
			n := len(ticks.waiters)
			ticks.lock.Release()
			if n == 1 {
				close(registered)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	<-registered
	Tick()

	select {
	case v := <-woken:
		if v != 1 {
			t.Fatalf("expected waiter to observe tick value 1; got %d", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the tick waiter to wake up")
	}
}

func TestWaitReturnsImmediatelyWhenAlreadyPast(t *testing.T) {
	defer resetClock()
	resetClock()

	Tick()
	Tick()

	if got := Wait(1); got != 2 {
		t.Fatalf("expected Wait(1) to return 2; got %d", got)
	}
}

func TestWatchdogStallHaltsSystem(t *testing.T) {
	defer func() {
		kfmt.SetOutputSink(nil)
		resetClock()

		if err := recover(); err != errWatchdogStall {
			t.Errorf("expected a panic with errWatchdogStall; got %v", err)
		}
	}()
	resetClock()

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)

	const threshold = 3
	SetWatchdog(threshold)

	// threshold+1 elapsed ticks past the baseline must trip the watchdog
	// on the next tick.
	for i := 0; i < threshold+1; i++ {
		Tick()
	}
	Tick()

	t.Fatalf("expected the watchdog to halt the system; output: %q", buf.String())
}

func TestWatchdogDiagnosticNamesThreshold(t *testing.T) {
	defer func() {
		kfmt.SetOutputSink(nil)
		resetClock()
	}()
	resetClock()

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)

	func() {
		defer func() { recover() }()
		SetWatchdog(1)
		Tick()
		Tick()
		Tick()
	}()

	if got := buf.String(); !strings.Contains(got, "threshold 1") {
		t.Fatalf("expected the watchdog diagnostic to name the threshold; got %q", got)
	}
}

func TestDisabledWatchdogNeverHalts(t *testing.T) {
	defer resetClock()
	resetClock()

	SetWatchdog(0)
	for i := 0; i < 1000; i++ {
		Tick()
	}

	if got := Ticks(); got != 1000 {
		t.Fatalf("expected 1000 ticks; got %d", got)
	}
}

func TestFeedResetsBaseline(t *testing.T) {
	defer resetClock()
	resetClock()

	SetWatchdog(5)
	for i := 0; i < 5; i++ {
		Tick()
		Feed()
	}

	// The baseline keeps up with the counter, so no tick budget is ever
	// exceeded.
	if got := Ticks(); got != 5 {
		t.Fatalf("expected 5 ticks; got %d", got)
	}
}
