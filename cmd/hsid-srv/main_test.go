// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/log"
	"github.com/go-lpc/hardsid/hspci"
)

type fakeBoard struct {
	nsids  int
	opened bool
	closed int
	regs   map[[2]int]byte
	stores int
}

func (brd *fakeBoard) Open() error {
	if brd.nsids == 0 {
		return hspci.ErrNotFound
	}
	brd.opened = true
	return nil
}

func (brd *fakeBoard) Close() error {
	brd.opened = false
	brd.closed++
	return nil
}

func (brd *fakeBoard) Available() int {
	if !brd.opened {
		return -1
	}
	return brd.nsids
}

func (brd *fakeBoard) Store(addr uint16, v byte, chip int) {
	brd.stores++
	brd.regs[[2]int{chip, int(addr)}] = v
}

func newTestSink(brd *fakeBoard) *sink {
	return &sink{
		newBoard: func(opts ...hspci.Option) board { return brd },
	}
}

func newTestContext() tdaq.Context {
	return tdaq.Context{
		Ctx: context.Background(),
		Msg: log.NewMsgStream("hsid-srv", log.LvlError, io.Discard),
	}
}

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		name string
		body []byte
		want []regWrite
		err  error
	}{
		{
			name: "empty",
			body: []byte{},
			want: []regWrite{},
		},
		{
			name: "two-writes",
			body: []byte{0, 0x18, 0x0f, 3, 0x04, 0x41},
			want: []regWrite{
				{chip: 0, addr: 0x18, v: 0x0f},
				{chip: 3, addr: 0x04, v: 0x41},
			},
		},
		{
			name: "truncated",
			body: []byte{0, 0x18},
			err:  fmt.Errorf("invalid SID frame size 2 (not a multiple of 3)"),
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decode(tc.body)
			switch {
			case err == nil && tc.err == nil:
				if !reflect.DeepEqual(got, tc.want) {
					t.Fatalf("invalid writes:\ngot= %+v\nwant=%+v", got, tc.want)
				}
			case err == nil && tc.err != nil:
				t.Fatalf("got=%v, want=%v", err, tc.err)
			case err != nil && tc.err != nil:
				if got, want := err.Error(), tc.err.Error(); got != want {
					t.Fatalf("got= %v\nwant=%v", got, want)
				}
			case err != nil && tc.err == nil:
				t.Fatalf("got=%+v\nwant=%v", err, tc.err)
			}
		})
	}
}

func TestSinkRun(t *testing.T) {
	var (
		brd  = &fakeBoard{nsids: 2, regs: make(map[[2]int]byte)}
		dev  = newTestSink(brd)
		ctx  = newTestContext()
		resp tdaq.Frame
		req  tdaq.Frame
	)

	for _, tc := range []struct {
		name string
		f    func(tdaq.Context, *tdaq.Frame, tdaq.Frame) error
	}{
		{"/config", dev.OnConfig},
		{"/init", dev.OnInit},
		{"/start", dev.OnStart},
	} {
		err := tc.f(ctx, &resp, req)
		if err != nil {
			t.Fatalf("could not run %s: %+v", tc.name, err)
		}
	}

	// /init silences both SIDs.
	if got, want := brd.stores, 2*(regVolume+1); got != want {
		t.Fatalf("invalid number of stores: got=%d, want=%d", got, want)
	}

	err := dev.sid(ctx, tdaq.Frame{Body: []byte{1, 0x18, 0x0f, 0, 0x01, 0x22}})
	if err != nil {
		t.Fatalf("could not forward SID frame: %+v", err)
	}
	if got, want := brd.regs[[2]int{1, 0x18}], byte(0x0f); got != want {
		t.Fatalf("invalid register: got=0x%x, want=0x%x", got, want)
	}
	if got, want := brd.regs[[2]int{0, 0x01}], byte(0x22); got != want {
		t.Fatalf("invalid register: got=0x%x, want=0x%x", got, want)
	}
	if got, want := dev.n, 2; got != want {
		t.Fatalf("invalid number of writes: got=%d, want=%d", got, want)
	}

	err = dev.sid(ctx, tdaq.Frame{Body: []byte{1}})
	if err == nil {
		t.Fatalf("expected an error")
	}

	err = dev.OnStop(ctx, &resp, req)
	if err != nil {
		t.Fatalf("could not stop: %+v", err)
	}
	if got, want := brd.regs[[2]int{1, 0x18}], byte(0); got != want {
		t.Fatalf("SID not silenced: got=0x%x, want=0x%x", got, want)
	}

	// writes outside a run are dropped.
	stores := brd.stores
	err = dev.sid(ctx, tdaq.Frame{Body: []byte{0, 0x18, 0x0f}})
	if err != nil {
		t.Fatalf("could not handle SID frame: %+v", err)
	}
	if brd.stores != stores {
		t.Fatalf("SID frame forwarded outside a run")
	}

	err = dev.OnQuit(ctx, &resp, req)
	if err != nil {
		t.Fatalf("could not quit: %+v", err)
	}
	if got, want := brd.closed, 1; got != want {
		t.Fatalf("board not closed: got=%d, want=%d", got, want)
	}
}

func TestSinkConfigFailure(t *testing.T) {
	var (
		brd  = &fakeBoard{regs: make(map[[2]int]byte)}
		dev  = newTestSink(brd)
		ctx  = newTestContext()
		resp tdaq.Frame
		req  tdaq.Frame
	)

	err := dev.OnConfig(ctx, &resp, req)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got, want := err.Error(), "could not open PCI HardSID: hspci: no PCI HardSID found"; got != want {
		t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
	}

	err = dev.OnInit(ctx, &resp, req)
	if err == nil {
		t.Fatalf("expected an error")
	}
}
