// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hspci

// SID registers used by the presence probe.
const (
	regV3FreqLo = 0x0e
	regV3FreqHi = 0x0f
	regV3Ctrl   = 0x12
	regLast     = 0x18 // last writable register (volume/filter mode)
	regOsc3     = 0x1b // voice 3 oscillator output
)

const (
	nPolls = 100

	ctrlTest = 0xff // test bit set: oscillator 3 held at zero
	ctrlSaw  = 0x20 // sawtooth, gate off
)

// clear zeroes every writable register of a hardware chip.
func (drv *Driver) clear(chip int) {
	for reg := regLast; reg >= 0; reg-- {
		drv.store(uint16(reg), 0, chip)
	}
}

// poll reports whether oscillator 3 of chip turns non-zero within
// nPolls reads.
func (drv *Driver) poll(chip int) bool {
	for i := 0; i < nPolls; i++ {
		if drv.read(regOsc3, chip) != 0 {
			return true
		}
	}
	return false
}

// probe runs voice 3 of the arm chip and watches oscillator 3 on the
// sense chip. A real SID keeps the oscillator at zero while the test bit
// is set, then starts counting once a waveform at maximum frequency is
// selected.
func (drv *Driver) probe(arm, sense int) bool {
	drv.store(regV3Ctrl, ctrlTest, arm)
	if drv.poll(sense) {
		return false
	}

	drv.store(regV3FreqLo, 0xff, arm)
	drv.store(regV3FreqHi, 0xff, arm)
	drv.store(regV3Ctrl, ctrlSaw, arm)
	return drv.poll(sense)
}

// detectSID reports whether a SID answers on the given hardware chip.
func (drv *Driver) detectSID(chip int) bool {
	drv.clear(chip)
	return drv.probe(chip, chip)
}

// detectSIDUno reports whether the 4 detected chips are one SID seen
// through 4 chip selects, as on the classic single-SID board: running
// chip 0 then shows up on chip 3.
func (drv *Driver) detectSIDUno() bool {
	for chip := 0; chip < MaxSID; chip++ {
		drv.clear(chip)
	}
	return drv.probe(0, MaxSID-1)
}
