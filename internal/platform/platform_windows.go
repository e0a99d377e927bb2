// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package platform

import (
	"runtime"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var pciPaths = []string{
	`Enum\PCI`,
	`SYSTEM\CurrentControlSet\Enum\PCI`,
}

type host struct{}

func (host) HasPCI() bool {
	return firstOf(pciPaths, openKey)
}

// Protected reports whether this is an NT-family kernel.
func (host) Protected() bool {
	v, err := windows.GetVersion()
	if err != nil {
		return true
	}
	return v&0x80000000 == 0
}

func (host) HelperNames() []string {
	switch runtime.GOARCH {
	case "386":
		return []string{"winio.dll", "winio32.dll"}
	default:
		return []string{"winio64.dll"}
	}
}

// openKey looks the key up in the 64-bit view, then the 32-bit view,
// then the default view of the registry.
func openKey(path string) bool {
	for _, view := range []uint32{registry.WOW64_64KEY, registry.WOW64_32KEY, 0} {
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE|view)
		if err != nil {
			continue
		}
		_ = k.Close()
		return true
	}
	return false
}
