// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package platform answers the host questions asked before touching
// PCI hardware: is there a PCI bus, may the process issue port
// instructions itself, and which helper libraries may grant access.
package platform // import "github.com/go-lpc/hardsid/internal/platform"

// Platform describes the host operating system.
type Platform interface {
	// HasPCI reports whether a PCI bus is present.
	HasPCI() bool

	// Protected reports whether the operating system forbids direct
	// port instructions, requiring a helper library.
	Protected() bool

	// HelperNames returns the candidate helper libraries, in the order
	// they should be tried.
	HelperNames() []string
}

// Host returns the platform the process runs on.
func Host() Platform {
	return host{}
}

// firstOf returns true as soon as one of the lookups succeeds.
func firstOf(paths []string, lookup func(string) bool) bool {
	for _, p := range paths {
		if lookup(p) {
			return true
		}
	}
	return false
}
