package bootargs

import "testing"

func TestCmdLineParsing(t *testing.T) {
	defer Set("")

	Set("console=ns16550a watchdog=50  verbose root=/dev/vda")

	kv := Get()
	specs := []struct {
		key, want string
	}{
		{"console", "ns16550a"},
		{"watchdog", "50"},
		{"verbose", "verbose"},
		{"root", "/dev/vda"},
	}

	for _, spec := range specs {
		if got := kv[spec.key]; got != spec.want {
			t.Errorf("expected %q -> %q; got %q", spec.key, spec.want, got)
		}
	}

	if v, ok := GetUint("watchdog"); !ok || v != 50 {
		t.Fatalf("expected watchdog to parse as 50; got (%d, %t)", v, ok)
	}

	if _, ok := GetUint("console"); ok {
		t.Fatal("a non-numeric value must not parse")
	}

	if _, ok := GetUint("missing"); ok {
		t.Fatal("a missing key must not parse")
	}
}

func TestGetBeforeSet(t *testing.T) {
	cmdLineKV = nil

	if kv := Get(); len(kv) != 0 {
		t.Fatalf("expected an empty map; got %v", kv)
	}
}
