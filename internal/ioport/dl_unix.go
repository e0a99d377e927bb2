// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin || freebsd || linux) && (amd64 || arm64)

package ioport

import (
	"github.com/ebitengine/purego"
)

type dlib struct {
	h uintptr
}

func openLibrary(name string) (library, error) {
	h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, err
	}
	return &dlib{h: h}, nil
}

func (lib *dlib) lookup(sym string) (uintptr, error) {
	return purego.Dlsym(lib.h, sym)
}

func (lib *dlib) close() error {
	return purego.Dlclose(lib.h)
}

func bind(lib library, abi ABI) (Module, error) {
	addrs, err := resolve(lib)
	if err != nil {
		return nil, err
	}

	mod := &module{lib: lib}
	purego.RegisterFunc(&mod.shutdown, addrs[3])

	switch abi {
	case ABIBool:
		purego.RegisterFunc(&mod.get, addrs[0])
		purego.RegisterFunc(&mod.set, addrs[1])
		purego.RegisterFunc(&mod.start, addrs[2])
	default:
		var (
			get   func(port uint16, v *uint32, size uint8) int32
			set   func(port uint16, v uint32, size uint8) int32
			start func() int32
		)
		purego.RegisterFunc(&get, addrs[0])
		purego.RegisterFunc(&set, addrs[1])
		purego.RegisterFunc(&start, addrs[2])

		mod.get = func(port uint16, v *uint32, size uint8) bool {
			return get(port, v, size) != 0
		}
		mod.set = func(port uint16, v uint32, size uint8) bool {
			return set(port, v, size) != 0
		}
		mod.start = func() bool { return start() != 0 }
	}

	return mod, nil
}
