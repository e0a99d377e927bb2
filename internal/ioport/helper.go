// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioport

import (
	"fmt"
)

type helper struct {
	mod Module
	err error
}

// NewHelper returns a Port delegating all accesses to mod.
// Closing the returned Port shuts mod down and unloads it.
func NewHelper(mod Module) Port {
	return &helper{mod: mod}
}

func (p *helper) out(port uint16, v uint32, size uint8) {
	if !p.mod.SetPortVal(port, v, size) && p.err == nil {
		p.err = fmt.Errorf("ioport: could not write %d byte(s) to port 0x%x", size, port)
	}
}

func (p *helper) in(port uint16, size uint8) uint32 {
	v, ok := p.mod.GetPortVal(port, size)
	if !ok && p.err == nil {
		p.err = fmt.Errorf("ioport: could not read %d byte(s) from port 0x%x", size, port)
	}
	return v
}

func (p *helper) Outb(port uint16, v uint8)  { p.out(port, uint32(v), 1) }
func (p *helper) Outl(port uint16, v uint32) { p.out(port, v, 4) }
func (p *helper) Inb(port uint16) uint8      { return uint8(p.in(port, 1)) }
func (p *helper) Inl(port uint16) uint32     { return p.in(port, 4) }

func (p *helper) Err() error { return p.err }

func (p *helper) Close() error {
	if p.mod == nil {
		return nil
	}
	mod := p.mod
	p.mod = nil
	mod.Shutdown()
	err := mod.Close()
	if err != nil {
		return fmt.Errorf("ioport: could not unload helper library: %w", err)
	}
	return nil
}

var _ Port = (*helper)(nil)

// LoadModule loads the first helper library of names that can be opened
// and resolves its entry points with the given ABI.
// It returns the module and the name it was loaded from.
func LoadModule(names []string, abi ABI) (Module, string, error) {
	if len(names) == 0 {
		return nil, "", ErrNoModule
	}

	var (
		lib  library
		name string
		err  error
	)
	for _, name = range names {
		lib, err = openLibrary(name)
		if err == nil {
			break
		}
	}
	if lib == nil {
		return nil, name, fmt.Errorf("%w (last tried %q: %v)", ErrNoModule, name, err)
	}

	mod, err := bind(lib, abi)
	if err != nil {
		_ = lib.close()
		return nil, name, fmt.Errorf("ioport: could not bind %q: %w", name, err)
	}
	return mod, name, nil
}

// library is a dynamically loaded shared object.
type library interface {
	lookup(sym string) (uintptr, error)
	close() error
}

func resolve(lib library) ([len(symbols)]uintptr, error) {
	var addrs [len(symbols)]uintptr
	for i, sym := range symbols {
		addr, err := lib.lookup(sym)
		if err != nil || addr == 0 {
			return addrs, fmt.Errorf("%w %q", ErrMissingSymbol, sym)
		}
		addrs[i] = addr
	}
	return addrs, nil
}
