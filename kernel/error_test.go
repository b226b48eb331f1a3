package kernel

import "testing"

func TestErrorImplementsErrorInterface(t *testing.T) {
	err := &Error{Module: "test", Message: "message"}
	if got := err.Error(); got != err.Message {
		t.Fatalf("expected Error() to return %q; got %q", err.Message, got)
	}
}
