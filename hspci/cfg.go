// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hspci

import (
	"os"

	"github.com/go-daq/tdaq/log"
	"github.com/go-lpc/hardsid/internal/ioport"
	"github.com/go-lpc/hardsid/internal/platform"
)

// ABI selects the calling shape of the helper library entry points.
type ABI = ioport.ABI

const (
	ABIWinIo = ioport.ABIWinIo // int-returning entry points
	ABIBool  = ioport.ABIBool  // bool-returning callbacks
)

const (
	// VendorID and DeviceID identify the HardSID PCI board.
	VendorID = 0x6581
	DeviceID = 0x8580
)

type config struct {
	msg log.MsgStream

	vendor uint16
	device uint16

	helpers []string // overrides the platform helper names
	abi     ABI

	plat platform.Platform
}

func newConfig() config {
	return config{
		msg:    log.NewMsgStream("hs-pci", log.LvlInfo, os.Stdout),
		vendor: VendorID,
		device: DeviceID,
		abi:    ABIWinIo,
		plat:   hostPlatform,
	}
}

// Option configures a Driver.
type Option func(*config)

// WithMsgStream sets the sink receiving progress and diagnostic messages.
func WithMsgStream(msg log.MsgStream) Option {
	return func(cfg *config) {
		cfg.msg = msg
	}
}

// WithHelperNames sets the helper libraries to try, in order.
// Helper libraries are then also tried on platforms permitting direct
// port access, falling back to direct access when none is usable.
func WithHelperNames(names ...string) Option {
	return func(cfg *config) {
		cfg.helpers = append([]string(nil), names...)
	}
}

// WithHelperABI sets the calling shape of the helper library.
func WithHelperABI(abi ABI) Option {
	return func(cfg *config) {
		cfg.abi = abi
	}
}

// WithPCIID sets the vendor and device identifiers to look for.
func WithPCIID(vendor, device uint16) Option {
	return func(cfg *config) {
		cfg.vendor = vendor
		cfg.device = device
	}
}

func withPlatform(p platform.Platform) Option {
	return func(cfg *config) {
		cfg.plat = p
	}
}
