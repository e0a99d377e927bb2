// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !windows && !((darwin || freebsd || linux) && (amd64 || arm64))

package ioport

import (
	"fmt"
	"runtime"
)

func openLibrary(name string) (library, error) {
	return nil, fmt.Errorf("ioport: dynamic libraries not supported on %s/%s", runtime.GOOS, runtime.GOARCH)
}

func bind(lib library, abi ABI) (Module, error) {
	return nil, fmt.Errorf("ioport: dynamic libraries not supported on %s/%s", runtime.GOOS, runtime.GOARCH)
}
