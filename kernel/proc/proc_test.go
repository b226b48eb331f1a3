package proc

import (
	"testing"

	"gopherv/kernel/cpu"
)

func TestKillFlag(t *testing.T) {
	p := New("init")

	if p.Killed() {
		t.Fatal("expected a fresh process not to be flagged killed")
	}

	p.Kill()
	if !p.Killed() {
		t.Fatal("expected the process to be flagged killed")
	}
}

func TestNewAssignsDistinctPIDs(t *testing.T) {
	p1, p2 := New("a"), New("b")

	if p1.PID == p2.PID {
		t.Fatalf("expected distinct pids; both are %d", p1.PID)
	}

	if p1.TF == nil || p1.PageTable == nil {
		t.Fatal("expected a fresh process to own a trap frame and a page table")
	}
}

func TestCurrentIsPerHart(t *testing.T) {
	defer func() {
		cpu.SetActiveHart(0)
		current[0] = nil
		current[1] = nil
	}()

	cpu.SetActiveHart(0)
	p := New("sh")
	SetCurrent(p)

	cpu.SetActiveHart(1)
	if Current() != nil {
		t.Fatal("expected hart 1 to be idle")
	}

	cpu.SetActiveHart(0)
	if Current() != p {
		t.Fatal("expected hart 0 to run the registered process")
	}
}
