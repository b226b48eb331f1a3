package mm

import (
	"fmt"
	"testing"
)

func TestPageFromAddressRoundsDown(t *testing.T) {
	specs := []struct {
		addr    uintptr
		expPage Page
	}{
		{0, 0},
		{1, 0},
		{PageSize - 1, 0},
		{PageSize, 1},
		{PageSize + 123, 1},
		{10 * PageSize, 10},
	}

	for specIndex, spec := range specs {
		t.Run(fmt.Sprint(specIndex), func(t *testing.T) {
			if got := PageFromAddress(spec.addr); got != spec.expPage {
				t.Errorf("expected page %d for address 0x%x; got %d", spec.expPage, spec.addr, got)
			}
		})
	}
}

func TestPageAndFrameAddresses(t *testing.T) {
	if got := Page(3).Address(); got != 3*PageSize {
		t.Errorf("expected page 3 address to be 0x%x; got 0x%x", 3*PageSize, got)
	}

	if got := Frame(7).Address(); got != 7*PageSize {
		t.Errorf("expected frame 7 address to be 0x%x; got 0x%x", 7*PageSize, got)
	}

	if got := FrameFromAddress(7*PageSize + 42); got != 7 {
		t.Errorf("expected frame 7; got %d", got)
	}
}
