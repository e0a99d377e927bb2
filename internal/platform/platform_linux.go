// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import (
	"os"
	"runtime"
)

var pciPaths = []string{
	"/sys/bus/pci/devices",
	"/proc/bus/pci",
}

type host struct{}

func (host) HasPCI() bool {
	return firstOf(pciPaths, exists)
}

// Protected reports false on x86 where a privileged process may raise its
// I/O privilege level and issue in/out instructions.
func (host) Protected() bool {
	switch runtime.GOARCH {
	case "386", "amd64":
		return false
	default:
		return true
	}
}

func (host) HelperNames() []string { return nil }

func exists(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && fi.IsDir()
}
