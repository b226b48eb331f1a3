// Package bootargs parses the boot command line handed to the kernel by
// the firmware (the bootargs property of the device tree's /chosen node)
// into key-value pairs.
package bootargs

import (
	"strconv"
	"strings"
)

var cmdLineKV map[string]string

// Set records and parses the raw boot command line. It is invoked once
// during early boot, before any call to Get.
func Set(raw string) {
	cmdLineKV = make(map[string]string)

	pairs := strings.Fields(raw)
	for _, pair := range pairs {
		kv := strings.Split(pair, "=")
		switch len(kv) {
		case 2: // foo=bar
			cmdLineKV[kv[0]] = kv[1]
		case 1: // nofoo
			cmdLineKV[kv[0]] = kv[0]
		}
	}
}

// Get returns the command line key-value pairs.
func Get() map[string]string {
	if cmdLineKV == nil {
		cmdLineKV = make(map[string]string)
	}

	return cmdLineKV
}

// GetUint looks up key and parses its value as an unsigned decimal. It
// returns false if the key is absent or its value does not parse.
func GetUint(key string) (uint64, bool) {
	v, ok := Get()[key]
	if !ok {
		return 0, false
	}

	parsed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, false
	}

	return parsed, true
}
