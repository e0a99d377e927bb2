// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ioport provides access to x86 I/O ports, either directly or
// through a privileged helper library.
package ioport // import "github.com/go-lpc/hardsid/internal/ioport"

import (
	"errors"
)

var (
	// ErrUnsupported is returned when direct port access is not available
	// on this platform.
	ErrUnsupported = errors.New("ioport: direct port access not supported")

	// ErrNoModule is returned when none of the candidate helper libraries
	// could be loaded.
	ErrNoModule = errors.New("ioport: no helper library found")

	// ErrMissingSymbol is returned when a helper library lacks one of the
	// required entry points.
	ErrMissingSymbol = errors.New("ioport: missing helper entry point")
)

// Port gives byte and double-word access to I/O ports.
//
// Port methods never return errors: the first failure is recorded and
// reported by Err.
type Port interface {
	Outb(port uint16, v uint8)
	Outl(port uint16, v uint32)
	Inb(port uint16) uint8
	Inl(port uint16) uint32

	// Err returns the first error encountered while accessing ports.
	Err() error

	// Close releases the underlying resources.
	Close() error
}

// Module is a loaded helper library granting port access to an
// unprivileged process.
type Module interface {
	Init() bool
	Shutdown()
	GetPortVal(port uint16, size uint8) (uint32, bool)
	SetPortVal(port uint16, v uint32, size uint8) bool

	// Close unloads the library.
	Close() error
}

// ABI describes the calling shape of the helper entry points.
type ABI int

const (
	// ABIWinIo entry points return a non-zero int on success.
	ABIWinIo ABI = iota
	// ABIBool entry points return a C bool.
	ABIBool
)

func (abi ABI) String() string {
	switch abi {
	case ABIWinIo:
		return "winio"
	case ABIBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Names of the helper entry points.
const (
	symGetPortVal = "GetPortVal"
	symSetPortVal = "SetPortVal"
	symInit       = "InitializeWinIo"
	symShutdown   = "ShutdownWinIo"
)

var symbols = [...]string{symGetPortVal, symSetPortVal, symInit, symShutdown}
