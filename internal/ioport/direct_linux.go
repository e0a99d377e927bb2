// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && (386 || amd64)

package ioport

import (
	"fmt"

	"github.com/u-root/u-root/pkg/memio"
	"golang.org/x/sys/unix"
)

var (
	iopl        = ioplImpl
	newArchPort = archPortImpl
)

func ioplImpl() error { return unix.Iopl(3) }

func archPortImpl() memio.PortReadWriter { return &memio.ArchPort{} }

type direct struct {
	rw  memio.PortReadWriter
	err error
}

// OpenDirect returns a Port issuing native in/out instructions.
// The calling process needs CAP_SYS_RAWIO.
func OpenDirect() (Port, error) {
	err := iopl()
	if err != nil {
		return nil, fmt.Errorf("ioport: could not raise I/O privilege level: %w", err)
	}
	return &direct{rw: newArchPort()}, nil
}

func (p *direct) out(port uint16, data memio.UintN) {
	if p.err != nil {
		return
	}
	err := p.rw.Out(port, data)
	if err != nil {
		p.err = fmt.Errorf("ioport: could not write %d byte(s) to port 0x%x: %w", data.Size(), port, err)
	}
}

func (p *direct) in(port uint16, data memio.UintN) {
	if p.err != nil {
		return
	}
	err := p.rw.In(port, data)
	if err != nil {
		p.err = fmt.Errorf("ioport: could not read %d byte(s) from port 0x%x: %w", data.Size(), port, err)
	}
}

func (p *direct) Outb(port uint16, v uint8) {
	data := memio.Uint8(v)
	p.out(port, &data)
}

func (p *direct) Outl(port uint16, v uint32) {
	data := memio.Uint32(v)
	p.out(port, &data)
}

func (p *direct) Inb(port uint16) uint8 {
	var data memio.Uint8
	p.in(port, &data)
	if p.err != nil {
		return 0
	}
	return uint8(data)
}

func (p *direct) Inl(port uint16) uint32 {
	var data memio.Uint32
	p.in(port, &data)
	if p.err != nil {
		return 0
	}
	return uint32(data)
}

func (p *direct) Err() error { return p.err }

func (p *direct) Close() error {
	return p.rw.Close()
}

var _ Port = (*direct)(nil)
