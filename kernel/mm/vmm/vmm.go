// Package vmm implements demand resolution of page faults against a
// process's declared memory regions.
package vmm

import (
	"gopherv/kernel"
	"gopherv/kernel/gate"
	"gopherv/kernel/mm"
)

// FaultOutcome describes the result of a page-fault resolution attempt.
// The five failure categories currently all lead to the termination of the
// faulting process but must stay distinct: they differ in their observable
// diagnostics and future handling may diverge by category.
type FaultOutcome int

const (
	// Resolved indicates that a mapping satisfying the faulting access
	// is installed; the faulting instruction can simply be retried.
	Resolved FaultOutcome = iota

	// NoRegion indicates that no memory region covers the faulting
	// address.
	NoRegion

	// OutOfMemory indicates that no physical frame could be allocated
	// for the mapping.
	OutOfMemory

	// BackingRead indicates that the region's backing store could not
	// be read.
	BackingRead

	// MapInstall indicates that installing the mapping into the page
	// table failed.
	MapInstall

	// Permission indicates that a covering region exists but its
	// permissions do not allow the faulting access.
	Permission
)

// String returns the category name used in fault diagnostics.
func (o FaultOutcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case NoRegion:
		return "no matching region"
	case OutOfMemory:
		return "out of memory"
	case BackingRead:
		return "backing read failure"
	case MapInstall:
		return "map install failure"
	case Permission:
		return "permission violation"
	default:
		return "unknown"
	}
}

// Region describes a declared range of a process's address space together
// with its permissions and backing store. A process's region list is
// guarded by the process's region lock.
type Region struct {
	// Start is the first virtual address covered by the region. It is
	// always page-aligned.
	Start uintptr

	// Length is the size of the region in bytes.
	Length uintptr

	// Flags holds the permission bits (read/write/exec) granted by the
	// region.
	Flags mm.EntryFlag

	// ReadBacking loads the page-sized chunk at the given region offset
	// into the supplied frame. A nil ReadBacking marks an anonymous
	// region whose pages are zero-filled on first touch.
	ReadBacking func(offset uintptr, frame mm.Frame) *kernel.Error
}

// Covers returns true if addr falls inside the region.
func (r *Region) Covers(addr uintptr) bool {
	return addr >= r.Start && addr < r.Start+r.Length
}

// mapFn is used by tests to inject mapping-installation failures.
var mapFn = (*mm.PageTable).Map

// accessFlags returns the permission bit exercised by the faulting access.
func accessFlags(cause gate.Cause) mm.EntryFlag {
	switch cause.Code() {
	case gate.ExcInstructionPageFault:
		return mm.FlagExec
	case gate.ExcStorePageFault:
		return mm.FlagWrite
	default:
		return mm.FlagRead
	}
}

// Resolve attempts to satisfy a page fault at page against the supplied
// region list, installing a new mapping into pt on success. The caller
// must hold the region lock of the process that owns pt and regions.
//
// A page that is already mapped with adequate permissions resolves
// immediately without touching the frame allocator; this makes resolution
// idempotent once a mapping is installed (e.g. when two harts of the same
// process fault on the same page back to back).
func Resolve(pt *mm.PageTable, regions []Region, page mm.Page, cause gate.Cause) FaultOutcome {
	need := accessFlags(cause)

	if entry, ok := pt.Lookup(page); ok && entry.Flags&need == need {
		return Resolved
	}

	addr := page.Address()

	var region *Region
	for regionIndex := range regions {
		if regions[regionIndex].Covers(addr) {
			region = &regions[regionIndex]
			break
		}
	}

	if region == nil {
		return NoRegion
	}

	if region.Flags&need != need {
		return Permission
	}

	frame, err := mm.AllocFrame()
	if err != nil {
		return OutOfMemory
	}

	if region.ReadBacking != nil {
		if err = region.ReadBacking(addr-region.Start, frame); err != nil {
			return BackingRead
		}
	}

	if err = mapFn(pt, page, frame, region.Flags|mm.FlagUser); err != nil {
		return MapInstall
	}

	return Resolved
}
