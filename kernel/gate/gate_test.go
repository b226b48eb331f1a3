package gate

import (
	"bytes"
	"strings"
	"testing"
)

func TestFrameDumpTo(t *testing.T) {
	var buf bytes.Buffer

	frame := Frame{
		Epc: 1,
		RA:  2,
		SP:  3,
		A0:  10,
		A7:  17,
		T6:  31,
	}
	frame.DumpTo(&buf)

	got := buf.String()
	for _, exp := range []string{
		"epc = 0000000000000001",
		"ra  = 0000000000000002 sp  = 0000000000000003",
		"a0  = 000000000000000a",
		"a7  = 0000000000000011",
		"t6  = 000000000000001f",
	} {
		if !strings.Contains(got, exp) {
			t.Errorf("expected dump to contain %q; got:\n%s", exp, got)
		}
	}
}
