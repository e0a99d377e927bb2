// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hspci

import (
	"fmt"

	"github.com/go-lpc/hardsid/internal/ioport"
)

const (
	fakeIO1 = 0x0300
	fakeIO2 = 0x0310
)

// fakeSID models the registers and the voice 3 oscillator of a SID.
type fakeSID struct {
	regs [nRegs]byte
	acc  uint32 // 24-bit phase accumulator of voice 3
	hot  bool   // oscillator output stuck non-zero
}

func (sid *fakeSID) store(reg, v byte) {
	sid.regs[reg] = v
	if reg == regV3Ctrl && v&0x08 != 0 {
		sid.acc = 0
	}
}

func (sid *fakeSID) read(reg byte) byte {
	if reg != regOsc3 {
		return sid.regs[reg]
	}
	if sid.hot {
		return 0xff
	}
	ctrl := sid.regs[regV3Ctrl]
	if ctrl&0x08 != 0 || ctrl&0xf0 == 0 {
		return 0
	}
	freq := uint32(sid.regs[regV3FreqLo]) | uint32(sid.regs[regV3FreqHi])<<8
	sid.acc = (sid.acc + freq) & 0xffffff
	return byte(sid.acc >> 16)
}

type portAccess struct {
	op   string
	port uint16
	v    uint32
}

func (pa portAccess) String() string {
	return fmt.Sprintf("%s(0x%x, 0x%x)", pa.op, pa.port, pa.v)
}

// fakeBoard simulates the PCI configuration space of a host with a
// HardSID board at bus=0, slot=5, func=0, and the board itself.
type fakeBoard struct {
	present bool // board plugged on the PCI bus
	cfgAddr uint32

	sids   [MaxSID]*fakeSID // nil: no chip behind that chip select
	single bool             // classic board: chip selects are ignored

	data byte // latched by io1+3
	sel  byte // latched by io1+4

	scans  int // number of configuration space address writes
	trace  bool
	log    []portAccess
	closed int
}

func newFakeBoard(nsids int) *fakeBoard {
	brd := &fakeBoard{present: true}
	for i := 0; i < nsids; i++ {
		brd.sids[i] = new(fakeSID)
	}
	return brd
}

func newClassicBoard() *fakeBoard {
	brd := newFakeBoard(1)
	brd.single = true
	return brd
}

func (brd *fakeBoard) sid(sel byte) *fakeSID {
	chip := int(sel >> 6)
	if brd.single {
		chip = 0
	}
	return brd.sids[chip]
}

func (brd *fakeBoard) record(op string, port uint16, v uint32) {
	if brd.trace {
		brd.log = append(brd.log, portAccess{op, port, v})
	}
}

func (brd *fakeBoard) Outb(port uint16, v uint8) {
	brd.record("outb", port, uint32(v))
	switch port {
	case fakeIO1 + 3:
		brd.data = v
	case fakeIO1 + 4:
		brd.sel = v
		if v&ctlRead != 0 {
			return
		}
		if sid := brd.sid(v); sid != nil {
			sid.store(v&0x1f, brd.data)
		}
	}
}

func (brd *fakeBoard) Outl(port uint16, v uint32) {
	brd.record("outl", port, v)
	if port == 0xcf8 {
		brd.cfgAddr = v
		brd.scans++
	}
}

func (brd *fakeBoard) Inb(port uint16) uint8 {
	var v uint8
	if port == fakeIO1 {
		if sid := brd.sid(brd.sel); sid != nil {
			v = sid.read(brd.sel & 0x1f)
		}
	}
	brd.record("inb", port, uint32(v))
	return v
}

func (brd *fakeBoard) Inl(port uint16) uint32 {
	v := uint32(0xffffffff)
	if port == 0xcfc && brd.present {
		switch brd.cfgAddr {
		case 0x80002800:
			v = DeviceID<<16 | VendorID
		case 0x80002810:
			v = fakeIO1 | 0x1
		case 0x80002814:
			v = fakeIO2 | 0x1
		}
	}
	brd.record("inl", port, v)
	return v
}

func (brd *fakeBoard) Err() error { return nil }

func (brd *fakeBoard) Close() error {
	brd.closed++
	return nil
}

var _ ioport.Port = (*fakeBoard)(nil)

// fakeModule exposes a fakeBoard through the helper library interface.
type fakeModule struct {
	brd      *fakeBoard
	initOK   bool
	inits    int
	shutdown int
	closed   int
}

func (m *fakeModule) Init() bool { m.inits++; return m.initOK }
func (m *fakeModule) Shutdown()  { m.shutdown++ }
func (m *fakeModule) Close() error {
	m.closed++
	return nil
}

func (m *fakeModule) GetPortVal(port uint16, size uint8) (uint32, bool) {
	switch size {
	case 1:
		return uint32(m.brd.Inb(port)), true
	case 4:
		return m.brd.Inl(port), true
	}
	return 0, false
}

func (m *fakeModule) SetPortVal(port uint16, v uint32, size uint8) bool {
	switch size {
	case 1:
		m.brd.Outb(port, uint8(v))
	case 4:
		m.brd.Outl(port, v)
	default:
		return false
	}
	return true
}

// fakePlatform is a scriptable host.
type fakePlatform struct {
	pci       bool
	protected bool
	helpers   []string
}

func (p fakePlatform) HasPCI() bool          { return p.pci }
func (p fakePlatform) Protected() bool       { return p.protected }
func (p fakePlatform) HelperNames() []string { return p.helpers }
