// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hsid-srv starts a TDAQ server driving a PCI HardSID board.
//
// SID register writes are received on the "/sid" input as a sequence of
// (chip, register, value) byte triples and forwarded to the board.
package main // import "github.com/go-lpc/hardsid/cmd/hsid-srv"

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/hardsid/hspci"
)

func main() {
	cmd := flags.New()

	dev := newSink()

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.InputHandle("/sid", dev.sid)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

// regWrite is one SID register write.
type regWrite struct {
	chip int
	addr uint16
	v    byte
}

func decode(p []byte) ([]regWrite, error) {
	if len(p)%3 != 0 {
		return nil, fmt.Errorf("invalid SID frame size %d (not a multiple of 3)", len(p))
	}
	ws := make([]regWrite, 0, len(p)/3)
	for i := 0; i < len(p); i += 3 {
		ws = append(ws, regWrite{
			chip: int(p[i]),
			addr: uint16(p[i+1]),
			v:    p[i+2],
		})
	}
	return ws, nil
}

// board is the part of the HardSID driver used by the sink.
type board interface {
	Open() error
	Close() error
	Available() int
	Store(addr uint16, v byte, chip int)
}

type sink struct {
	mu       sync.Mutex
	brd      board
	newBoard func(opts ...hspci.Option) board

	running bool
	n       int // number of register writes forwarded during the run
}

func newSink() *sink {
	return &sink{
		newBoard: func(opts ...hspci.Option) board { return hspci.New(opts...) },
	}
}

const regVolume = 0x18 // filter mode and main volume

// silence clears every writable register of every usable SID.
func (dev *sink) silence() {
	if dev.brd == nil {
		return
	}
	for chip := 0; chip < dev.brd.Available(); chip++ {
		for reg := regVolume; reg >= 0; reg-- {
			dev.brd.Store(uint16(reg), 0, chip)
		}
	}
}

func (dev *sink) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.brd != nil {
		_ = dev.brd.Close()
	}
	dev.brd = dev.newBoard(hspci.WithMsgStream(ctx.Msg))

	err := dev.brd.Open()
	if err != nil {
		ctx.Msg.Errorf("could not open PCI HardSID: %+v", err)
		return fmt.Errorf("could not open PCI HardSID: %w", err)
	}
	ctx.Msg.Infof("PCI HardSID ready with %d SIDs", dev.brd.Available())
	return nil
}

func (dev *sink) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.brd == nil || dev.brd.Available() <= 0 {
		return fmt.Errorf("PCI HardSID not configured")
	}
	dev.silence()
	dev.n = 0
	return nil
}

func (dev *sink) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	dev.mu.Lock()
	defer dev.mu.Unlock()

	dev.silence()
	dev.running = false
	dev.n = 0
	return nil
}

func (dev *sink) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	dev.mu.Lock()
	defer dev.mu.Unlock()

	dev.running = true
	return nil
}

func (dev *sink) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /stop command...")
	dev.mu.Lock()
	defer dev.mu.Unlock()

	dev.running = false
	dev.silence()
	ctx.Msg.Infof("forwarded %d SID register writes", dev.n)
	return nil
}

func (dev *sink) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	dev.mu.Lock()
	defer dev.mu.Unlock()

	if dev.brd != nil {
		dev.silence()
		_ = dev.brd.Close()
		dev.brd = nil
	}
	return nil
}

func (dev *sink) sid(ctx tdaq.Context, src tdaq.Frame) error {
	ws, err := decode(src.Body)
	if err != nil {
		return fmt.Errorf("could not decode SID frame: %w", err)
	}

	dev.mu.Lock()
	defer dev.mu.Unlock()

	if !dev.running || dev.brd == nil {
		return nil
	}
	for _, w := range ws {
		dev.brd.Store(w.addr, w.v, w.chip)
	}
	dev.n += len(ws)
	return nil
}
