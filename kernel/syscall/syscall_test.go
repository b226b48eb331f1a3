package syscall

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"gopherv/kernel/clock"
	"gopherv/kernel/kfmt"
	"gopherv/kernel/proc"
	"gopherv/kernel/sched"
)

func TestGetPID(t *testing.T) {
	p := proc.New("sh")
	p.TF.A7 = SysGetPID

	Dispatch(p)

	if got := p.TF.A0; got != uint64(p.PID) {
		t.Fatalf("expected a0 to hold pid %d; got %d", p.PID, got)
	}
}

func TestUptime(t *testing.T) {
	p := proc.New("sh")
	p.TF.A7 = SysUptime

	before := clock.Ticks()
	Dispatch(p)

	if got := p.TF.A0; got < before {
		t.Fatalf("expected a0 to hold at least %d; got %d", before, got)
	}
}

func TestExitRoutesToScheduler(t *testing.T) {
	defer func() { exitFn = sched.Exit }()

	var gotCode int
	exitFn = func(code int) { gotCode = code }

	p := proc.New("sh")
	p.TF.A7 = SysExit
	p.TF.A0 = uint64(3)

	Dispatch(p)

	if gotCode != 3 {
		t.Fatalf("expected exit code 3; got %d", gotCode)
	}
}

func TestUnknownSyscall(t *testing.T) {
	defer kfmt.SetOutputSink(nil)

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)

	p := proc.New("sh")
	p.TF.A7 = 9999

	Dispatch(p)

	if got := p.TF.A0; got != ^uint64(0) {
		t.Fatalf("expected a0 to hold -1; got %d", got)
	}

	if got := buf.String(); !strings.Contains(got, "unknown syscall 9999") {
		t.Fatalf("expected a diagnostic naming the syscall; got %q", got)
	}
}

func TestSleepWakesAfterTicks(t *testing.T) {
	p := proc.New("sh")
	p.TF.A7 = SysSleep
	p.TF.A0 = 2

	done := make(chan struct{})
	go func() {
		Dispatch(p)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-done:
			if got := p.TF.A0; got != 0 {
				t.Fatalf("expected sleep to return 0; got %d", got)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for sleep to complete")
		default:
			clock.Tick()
			time.Sleep(time.Millisecond)
		}
	}
}

func TestSleepAbortsWhenKilled(t *testing.T) {
	p := proc.New("sh")
	p.TF.A7 = SysSleep
	p.TF.A0 = 1 << 60
	p.Kill()

	done := make(chan struct{})
	go func() {
		Dispatch(p)
		close(done)
	}()

	// The killed flag is checked on every wakeup.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-done:
			if got := p.TF.A0; got != ^uint64(0) {
				t.Fatalf("expected sleep to return -1; got %d", got)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for the killed sleeper to abort")
		default:
			clock.Tick()
			time.Sleep(time.Millisecond)
		}
	}
}
