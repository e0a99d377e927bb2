// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hspci drives HardSID PCI boards: it locates the board on the
// PCI bus, detects the SID chips behind it and forwards SID register
// accesses from an emulator to the hardware.
//
// A Driver is not safe for concurrent use.
package hspci // import "github.com/go-lpc/hardsid/hspci"

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-lpc/hardsid/internal/ioport"
	"github.com/go-lpc/hardsid/internal/pci"
	"github.com/go-lpc/hardsid/internal/platform"
)

const (
	MaxSID = 4 // maximum number of SID chips behind one board

	nRegs = 0x20 // size of the SID register window

	settle = 2 * time.Microsecond
)

const (
	notProbed  = -1
	unassigned = -1
)

var (
	// ErrUnsupported is returned when the host gives no way to reach
	// the board: no PCI bus, or no usable port access method.
	ErrUnsupported = errors.New("hspci: cannot access hardware")

	// ErrNotFound is returned when no HardSID board sits on the PCI bus.
	ErrNotFound = errors.New("hspci: no PCI HardSID found")

	// ErrNoChips is returned when a board was found but no SID chip
	// answered the presence probe.
	ErrNoChips = errors.New("hspci: no SID chip detected")

	// ErrPreviousFailure is returned by Open when a previous Open failed
	// and the driver was not closed since.
	ErrPreviousFailure = errors.New("hspci: previous open failed")
)

// test seams.
var (
	hostPlatform = platform.Host()
	openDirect   = ioport.OpenDirect
	loadModule   = ioport.LoadModule
)

// Mode is the port access method selected by Open.
type Mode int

const (
	ModeNone   Mode = iota // not opened
	ModeDirect             // native port instructions
	ModeHelper             // privileged helper library
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeDirect:
		return "direct"
	case ModeHelper:
		return "helper"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Driver holds the state of one HardSID board.
type Driver struct {
	cfg config

	mode Mode
	port ioport.Port
	dev  pci.Device

	found int         // -1: not probed, 0: none, N: number of usable chips
	sids  [MaxSID]int // logical chip -> hardware chip
}

// New returns a closed driver.
func New(opts ...Option) *Driver {
	drv := &Driver{
		cfg:   newConfig(),
		found: notProbed,
	}
	for _, opt := range opts {
		opt(&drv.cfg)
	}
	drv.reset()
	return drv
}

func (drv *Driver) reset() {
	for i := range drv.sids {
		drv.sids[i] = unassigned
	}
	drv.found = notProbed
	drv.mode = ModeNone
	drv.port = nil
	drv.dev = pci.Device{}
}

// Open locates the board and detects its SID chips.
//
// Open is a no-op when the driver is already open. After a failed Open,
// the driver must be closed before trying again.
func (drv *Driver) Open() error {
	switch {
	case drv.found > 0:
		return nil
	case drv.found == 0:
		return ErrPreviousFailure
	}

	drv.found = 0
	msg := drv.cfg.msg
	msg.Infof("detecting PCI HardSID boards")

	if !drv.cfg.plat.HasPCI() {
		msg.Warnf("no PCI bus present")
		return fmt.Errorf("hspci: no PCI bus: %w", ErrUnsupported)
	}

	err := drv.openPort()
	if err != nil {
		return err
	}

	drv.dev, err = pci.Find(drv.port, drv.cfg.vendor, drv.cfg.device)
	if err != nil {
		msg.Warnf("no PCI HardSID found")
		return fmt.Errorf("%w (vendor=0x%04x, device=0x%04x)", ErrNotFound, drv.cfg.vendor, drv.cfg.device)
	}
	msg.Infof(
		"PCI HardSID board found at %v: $%04X and $%04X",
		drv.dev.Location, drv.dev.IO1, drv.dev.IO2,
	)

	for chip := 0; chip < MaxSID; chip++ {
		if drv.detectSID(chip) {
			drv.sids[drv.found] = chip
			drv.found++
		}
	}

	if drv.found == 0 {
		msg.Warnf("no SID chip answered on PCI HardSID board")
		return ErrNoChips
	}

	// a classic HardSID shows its single SID on all 4 chip selects.
	if drv.found == MaxSID && drv.detectSIDUno() {
		msg.Infof("classic PCI HardSID detected")
		for i := 1; i < MaxSID; i++ {
			drv.sids[i] = unassigned
		}
		drv.found = 1
	}

	msg.Infof("PCI HardSID: opened, found %d SIDs", drv.found)
	return nil
}

// openPort selects the port access method.
func (drv *Driver) openPort() error {
	var (
		msg   = drv.cfg.msg
		plat  = drv.cfg.plat
		names = drv.cfg.helpers
	)
	if names == nil {
		names = plat.HelperNames()
	}

	if plat.Protected() || len(drv.cfg.helpers) > 0 {
		port, err := drv.openHelper(names)
		if err == nil {
			drv.port = port
			drv.mode = ModeHelper
			return nil
		}
		if plat.Protected() {
			msg.Errorf("cannot use direct PCI I/O access on a protected OS: %+v", err)
			return fmt.Errorf("hspci: could not load I/O helper: %v: %w", err, ErrUnsupported)
		}
		msg.Infof("%v, trying direct PCI I/O access", err)
	}

	port, err := openDirect()
	if err != nil {
		msg.Errorf("cannot use direct PCI I/O access: %+v", err)
		return fmt.Errorf("hspci: could not open direct I/O access: %v: %w", err, ErrUnsupported)
	}
	msg.Infof("using direct PCI I/O access")
	drv.port = port
	drv.mode = ModeDirect
	return nil
}

func (drv *Driver) openHelper(names []string) (ioport.Port, error) {
	msg := drv.cfg.msg
	mod, name, err := loadModule(names, drv.cfg.abi)
	if err != nil {
		if errors.Is(err, ioport.ErrNoModule) {
			return nil, fmt.Errorf("cannot open %q: %w", name, err)
		}
		return nil, fmt.Errorf("cannot get I/O functions in %q: %w", name, err)
	}
	msg.Infof("opened %s", name)

	if !mod.Init() {
		_ = mod.Close()
		return nil, fmt.Errorf("could not initialize %q", name)
	}
	msg.Infof("using %s for PCI I/O access", name)

	return ioport.NewHelper(mod), nil
}

// Close releases the board and the port access method.
// Close always succeeds, whatever the outcome of a previous Open.
func (drv *Driver) Close() error {
	msg := drv.cfg.msg
	if drv.port != nil {
		if err := drv.port.Err(); err != nil {
			msg.Warnf("PCI HardSID: port I/O error: %+v", err)
		}
		if err := drv.port.Close(); err != nil {
			msg.Warnf("PCI HardSID: %+v", err)
		}
	}
	drv.reset()
	msg.Infof("PCI HardSID: closed")
	return nil
}

// Available returns the number of usable SID chips, 0 if the last Open
// found none, or -1 if the driver is closed.
func (drv *Driver) Available() int {
	return drv.found
}

// Mode returns the port access method in use.
func (drv *Driver) Mode() Mode {
	return drv.mode
}

// Device returns the PCI board in use, if any.
func (drv *Driver) Device() (pci.Device, bool) {
	return drv.dev, drv.port != nil && drv.found > 0
}

func (drv *Driver) valid(addr uint16, chip int) bool {
	return chip >= 0 && chip < MaxSID && drv.sids[chip] != unassigned && addr < nRegs
}

// Read returns the value of SID register addr of the given chip.
// chip is the logical index: the chip-th SID detected by Open, whichever
// chip select it sits on.
//
// Accesses to unassigned chips or out-of-range registers are dropped and
// return 0: Read is called every emulated cycle and never fails.
func (drv *Driver) Read(addr uint16, chip int) byte {
	if !drv.valid(addr, chip) {
		return 0
	}
	return drv.read(addr, drv.sids[chip])
}

// Store writes v to SID register addr of the given chip.
// chip is the logical index, as for Read.
//
// Accesses to unassigned chips or out-of-range registers are dropped.
func (drv *Driver) Store(addr uint16, v byte, chip int) {
	if !drv.valid(addr, chip) {
		return
	}
	drv.store(addr, v, drv.sids[chip])
}

const (
	ctlRead    = 0x20 // read strobe on the chip select port
	ctlLatchOn = 0x20
	ctlRelease = 0x80
)

// delay busy-waits for the bus settle time.
func delay() {
	for t0 := time.Now(); time.Since(t0) < settle; {
	}
}

func selector(addr uint16, chip int) uint8 {
	return uint8(chip<<6) | uint8(addr&0x1f)
}

// read and store access a hardware chip without validation.
func (drv *Driver) read(addr uint16, chip int) byte {
	var (
		io1 = drv.dev.IO1
		io2 = drv.dev.IO2
	)
	drv.port.Outb(io1+4, selector(addr, chip)|ctlRead)
	delay()
	drv.port.Outb(io2+2, ctlLatchOn)
	v := drv.port.Inb(io1)
	drv.port.Outb(io2+2, ctlRelease)
	return v
}

func (drv *Driver) store(addr uint16, v byte, chip int) {
	io1 := drv.dev.IO1
	drv.port.Outb(io1+3, v)
	drv.port.Outb(io1+4, selector(addr, chip))
	delay()
}
