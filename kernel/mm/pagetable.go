package mm

import (
	"sync/atomic"

	"gopherv/kernel"
)

// EntryFlag describes the flag bits of a page-table entry.
type EntryFlag uint64

// Sv39 page-table entry flags.
const (
	FlagValid EntryFlag = 1 << iota
	FlagRead
	FlagWrite
	FlagExec
	FlagUser
)

// satpModeSv39 selects Sv39 paging in the satp CSR.
const satpModeSv39 = uint64(8) << 60

// pageTableRegion is the physical region where page-table roots are
// handed out from on the simulated machine.
const pageTableRegion = uintptr(0x87000000)

var nextTableRoot uint64

var errNilPageTable = &kernel.Error{Module: "mm", Message: "mapping installed on a nil page table"}

// Entry describes an installed page mapping.
type Entry struct {
	Frame Frame
	Flags EntryFlag
}

// PageTable models a per-process Sv39 page table. Mutations to the table
// are serialized by the owning process's region lock; the table itself
// carries no lock.
type PageTable struct {
	root    uintptr
	entries map[Page]Entry
}

// NewPageTable allocates an empty page table.
func NewPageTable() *PageTable {
	return &PageTable{
		root:    pageTableRegion + uintptr(atomic.AddUint64(&nextTableRoot, 1))*PageSize,
		entries: make(map[Page]Entry),
	}
}

// Map installs a mapping from page to frame with the supplied flags.
func (pt *PageTable) Map(page Page, frame Frame, flags EntryFlag) *kernel.Error {
	if pt == nil || pt.entries == nil {
		return errNilPageTable
	}

	pt.entries[page] = Entry{Frame: frame, Flags: flags | FlagValid}
	return nil
}

// Lookup returns the entry installed for page, if any.
func (pt *PageTable) Lookup(page Page) (Entry, bool) {
	if pt == nil {
		return Entry{}, false
	}

	entry, ok := pt.entries[page]
	return entry, ok
}

// SATP returns the satp token that activates this page table: the Sv39
// mode bits combined with the physical page number of the table root.
func (pt *PageTable) SATP() uint64 {
	return satpModeSv39 | uint64(pt.root>>PageShift)
}
