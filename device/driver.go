// Package device defines the driver interface implemented by all device
// drivers together with the driver registry consulted by the hal package
// at boot time.
package device

import (
	"io"

	"gopherv/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that scans for the presence of a particular piece
// of hardware and returns a driver for it.
type ProbeFn func() Driver

// Detection priorities for probed drivers.
const (
	// DetectOrderEarly denotes drivers that must be detected before any
	// other driver (e.g. the console).
	DetectOrderEarly = -100

	// DetectOrderNormal denotes drivers without special detection
	// ordering requirements.
	DetectOrderNormal = 0

	// DetectOrderLast denotes drivers that must be detected after every
	// other driver.
	DetectOrderLast = 100
)

// DriverInfo describes a driver known to the registry.
type DriverInfo struct {
	// Order defines the detection priority for this driver.
	Order int

	// Probe detects the presence of the driven hardware.
	Probe ProbeFn
}

// DriverInfoList is a list of registered drivers that can be sorted by
// detection order.
type DriverInfoList []*DriverInfo

// Len returns the number of entries in the list.
func (l DriverInfoList) Len() int { return len(l) }

// Swap exchanges 2 entries in the list.
func (l DriverInfoList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Less compares 2 entries of the list by their detection order.
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }

var registeredDrivers DriverInfoList

// RegisterDriver adds info to the driver registry. It is meant to be
// invoked from the init function of each driver package.
func RegisterDriver(info *DriverInfo) {
	registeredDrivers = append(registeredDrivers, info)
}

// DriverList returns the list of registered drivers.
func DriverList() DriverInfoList {
	return registeredDrivers
}
