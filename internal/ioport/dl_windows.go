// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build windows

package ioport

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

type dll struct {
	d *windows.DLL
}

func openLibrary(name string) (library, error) {
	d, err := windows.LoadDLL(name)
	if err != nil {
		return nil, err
	}
	return &dll{d: d}, nil
}

func (lib *dll) lookup(sym string) (uintptr, error) {
	proc, err := lib.d.FindProc(sym)
	if err != nil {
		return 0, err
	}
	return proc.Addr(), nil
}

func (lib *dll) close() error {
	return lib.d.Release()
}

func bind(lib library, abi ABI) (Module, error) {
	addrs, err := resolve(lib)
	if err != nil {
		return nil, err
	}

	// C bool only defines the low byte of the return register.
	ok := func(r uintptr) bool { return int32(r) != 0 }
	if abi == ABIBool {
		ok = func(r uintptr) bool { return uint8(r) != 0 }
	}

	var (
		get      = addrs[0]
		set      = addrs[1]
		start    = addrs[2]
		shutdown = addrs[3]
	)
	return &module{
		lib: lib,
		start: func() bool {
			r, _, _ := syscall.SyscallN(start)
			return ok(r)
		},
		shutdown: func() {
			_, _, _ = syscall.SyscallN(shutdown)
		},
		get: func(port uint16, v *uint32, size uint8) bool {
			r, _, _ := syscall.SyscallN(get, uintptr(port), uintptr(unsafe.Pointer(v)), uintptr(size))
			return ok(r)
		},
		set: func(port uint16, v uint32, size uint8) bool {
			r, _, _ := syscall.SyscallN(set, uintptr(port), uintptr(v), uintptr(size))
			return ok(r)
		},
	}, nil
}
