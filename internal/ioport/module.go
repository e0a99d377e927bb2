// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ioport

// module adapts the resolved helper entry points to the Module interface.
type module struct {
	lib library

	start    func() bool
	shutdown func()
	get      func(port uint16, v *uint32, size uint8) bool
	set      func(port uint16, v uint32, size uint8) bool
}

func (m *module) Init() bool { return m.start() }
func (m *module) Shutdown()  { m.shutdown() }

func (m *module) GetPortVal(port uint16, size uint8) (uint32, bool) {
	var v uint32
	ok := m.get(port, &v, size)
	return v, ok
}

func (m *module) SetPortVal(port uint16, v uint32, size uint8) bool {
	return m.set(port, v, size)
}

func (m *module) Close() error { return m.lib.close() }

var _ Module = (*module)(nil)
