package sync

import (
	stdsync "sync"
	"testing"
)

func TestSpinlockMutualExclusion(t *testing.T) {
	var (
		l       Spinlock
		wg      stdsync.WaitGroup
		counter int
	)

	const workers = 8
	const increments = 1000

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				l.Acquire()
				counter++
				l.Release()
			}
		}()
	}
	wg.Wait()

	if exp := workers * increments; counter != exp {
		t.Fatalf("expected counter to be %d; got %d", exp, counter)
	}
}

func TestSpinlockTryToAcquire(t *testing.T) {
	var l Spinlock

	if !l.TryToAcquire() {
		t.Fatal("expected TryToAcquire to succeed on a free lock")
	}

	if l.TryToAcquire() {
		t.Fatal("expected TryToAcquire to fail on a held lock")
	}

	l.Release()
	if !l.TryToAcquire() {
		t.Fatal("expected TryToAcquire to succeed after Release")
	}
}
