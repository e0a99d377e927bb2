// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux && !windows

package platform

type host struct{}

func (host) HasPCI() bool          { return false }
func (host) Protected() bool       { return true }
func (host) HelperNames() []string { return nil }
