package kernel

// Error describes an error condition detected by the kernel. Kernel errors
// are declared once as package-level pointer values so that raising one
// never allocates; comparing two errors is a pointer comparison.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
