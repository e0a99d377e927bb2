// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pci locates PCI devices through the legacy configuration
// mechanism #1 (address port 0xCF8, data port 0xCFC).
package pci // import "github.com/go-lpc/hardsid/internal/pci"

import (
	"errors"
	"fmt"
)

const (
	cfgAddr = 0xcf8
	cfgData = 0xcfc

	enable = 0x80000000

	regBAR0 = 0x10
	regBAR1 = 0x14

	ioMask = 0xfffc // strips the I/O space indicator bits of a BAR

	nBuses = 256
	nSlots = 32
	nFuncs = 8
)

var ErrNotFound = errors.New("pci: device not found")

// ConfigIO is the port access needed to walk the configuration space.
type ConfigIO interface {
	Outl(port uint16, v uint32)
	Inl(port uint16) uint32
}

// Location identifies a PCI function.
type Location struct {
	Bus  uint8
	Slot uint8
	Func uint8
}

func (loc Location) String() string {
	return fmt.Sprintf("%02x:%02x.%x", loc.Bus, loc.Slot, loc.Func)
}

func (loc Location) addr(reg uint32) uint32 {
	return enable | uint32(loc.Bus)<<16 | uint32(loc.Slot)<<11 | uint32(loc.Func)<<8 | reg
}

// Device is a PCI function with its first two I/O base addresses.
type Device struct {
	Location
	IO1 uint16 // from BAR0
	IO2 uint16 // from BAR1
}

func read(cfg ConfigIO, addr uint32) uint32 {
	cfg.Outl(cfgAddr, addr)
	return cfg.Inl(cfgData)
}

// Find walks every bus, slot and function and returns the first device
// matching the vendor and device identifiers.
// Only the first match is reported even if more boards are present.
func Find(cfg ConfigIO, vendor, device uint16) (Device, error) {
	want := uint32(vendor) | uint32(device)<<16
	for bus := 0; bus < nBuses; bus++ {
		for slot := 0; slot < nSlots; slot++ {
			for fct := 0; fct < nFuncs; fct++ {
				loc := Location{Bus: uint8(bus), Slot: uint8(slot), Func: uint8(fct)}
				if read(cfg, loc.addr(0)) != want {
					continue
				}
				return Device{
					Location: loc,
					IO1:      uint16(read(cfg, loc.addr(regBAR0)) & ioMask),
					IO2:      uint16(read(cfg, loc.addr(regBAR1)) & ioMask),
				}, nil
			}
		}
	}
	return Device{}, ErrNotFound
}
