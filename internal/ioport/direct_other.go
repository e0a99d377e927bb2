// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !(linux && (386 || amd64))

package ioport

// OpenDirect returns ErrUnsupported: native port instructions are only
// issued on linux/386 and linux/amd64.
func OpenDirect() (Port, error) {
	return nil, ErrUnsupported
}
