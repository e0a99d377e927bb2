// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hspci

// SnapshotState is the hardware SID record of an emulator snapshot.
type SnapshotState struct {
	MainClk        uint32
	AlarmClk       uint32
	LastAccessClk  uint32
	LastAccessMS   uint32
	LastAccessChip uint32
	ChipUsed       uint32
	DeviceMap      [MaxSID]uint32
}

// StateRead fills st for the given chip.
// The board keeps no state worth saving: st is always zeroed.
func (drv *Driver) StateRead(chip int, st *SnapshotState) {
	*st = SnapshotState{}
}

// StateWrite restores st for the given chip. It does nothing.
func (drv *Driver) StateWrite(chip int, st *SnapshotState) {}
