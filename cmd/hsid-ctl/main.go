// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command hsid-ctl probes PCI HardSID boards and gives interactive access
// to their SID registers.
//
// Usage:
//
//	$> hsid-ctl probe
//	$> hsid-ctl regs -c 1
//	$> hsid-ctl shell --helper=winio64.dll
package main // import "github.com/go-lpc/hardsid/cmd/hsid-ctl"

import (
	"fmt"
	"io"
	"log"
	"os"

	tlog "github.com/go-daq/tdaq/log"
	"github.com/go-lpc/hardsid"
	"github.com/go-lpc/hardsid/hspci"
	"github.com/spf13/cobra"
)

func main() {
	log.SetPrefix("hsid-ctl: ")
	log.SetFlags(0)

	err := newRootCmd(os.Stdout).Execute()
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

type options struct {
	helpers []string
	abi     string
	verbose bool
}

func (opts *options) driver() (*hspci.Driver, error) {
	lvl := tlog.LvlInfo
	if opts.verbose {
		lvl = tlog.LvlDebug
	}

	xopts := []hspci.Option{
		hspci.WithMsgStream(tlog.NewMsgStream("hs-pci", lvl, os.Stderr)),
	}
	if len(opts.helpers) > 0 {
		xopts = append(xopts, hspci.WithHelperNames(opts.helpers...))
	}

	switch opts.abi {
	case "winio":
		xopts = append(xopts, hspci.WithHelperABI(hspci.ABIWinIo))
	case "bool":
		xopts = append(xopts, hspci.WithHelperABI(hspci.ABIBool))
	default:
		return nil, fmt.Errorf("invalid helper ABI %q", opts.abi)
	}

	return hspci.New(xopts...), nil
}

// open returns an opened driver.
func (opts *options) open() (*hspci.Driver, error) {
	drv, err := opts.driver()
	if err != nil {
		return nil, err
	}

	err = drv.Open()
	if err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("could not open PCI HardSID: %w", err)
	}
	return drv, nil
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "hsid-ctl",
		Short:         "hsid-ctl controls PCI HardSID boards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.PersistentFlags().StringSliceVar(&opts.helpers, "helper", nil, "I/O helper libraries to try, in order")
	root.PersistentFlags().StringVar(&opts.abi, "abi", "winio", "I/O helper ABI (winio|bool)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug messages")

	root.AddCommand(
		newProbeCmd(&opts),
		newRegsCmd(&opts),
		newShellCmd(&opts),
		newVersionCmd(),
	)
	return root
}

func newProbeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "detect the PCI HardSID board and its SID chips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := opts.open()
			if err != nil {
				return err
			}
			defer drv.Close()

			return probe(cmd.OutOrStdout(), drv)
		},
	}
}

func probe(w io.Writer, drv *hspci.Driver) error {
	dev, ok := drv.Device()
	if !ok {
		return fmt.Errorf("no PCI HardSID board opened")
	}
	fmt.Fprintf(w, "board:  %v\n", dev.Location)
	fmt.Fprintf(w, "ports:  $%04X $%04X\n", dev.IO1, dev.IO2)
	fmt.Fprintf(w, "access: %v\n", drv.Mode())
	fmt.Fprintf(w, "SIDs:   %d\n", drv.Available())
	return nil
}

// readable SID registers.
var readRegs = []struct {
	addr uint16
	name string
}{
	{0x19, "POTX"},
	{0x1a, "POTY"},
	{0x1b, "OSC3"},
	{0x1c, "ENV3"},
}

func newRegsCmd(opts *options) *cobra.Command {
	var chip int
	cmd := &cobra.Command{
		Use:   "regs",
		Short: "dump the readable registers of a SID chip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := opts.open()
			if err != nil {
				return err
			}
			defer drv.Close()

			return regs(cmd.OutOrStdout(), drv, chip)
		},
	}
	cmd.Flags().IntVarP(&chip, "chip", "c", 0, "SID chip index")
	return cmd
}

func regs(w io.Writer, drv *hspci.Driver, chip int) error {
	if chip < 0 || chip >= drv.Available() {
		return fmt.Errorf("invalid chip %d (SIDs: %d)", chip, drv.Available())
	}
	for _, reg := range readRegs {
		fmt.Fprintf(w, "$%02X %-4s = $%02X\n", reg.addr, reg.name, drv.Read(reg.addr, chip))
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the hsid-ctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			vers, sum := hardsid.Version()
			if vers == "" {
				vers = "(devel)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "hsid-ctl %s %s\n", vers, sum)
		},
	}
}
