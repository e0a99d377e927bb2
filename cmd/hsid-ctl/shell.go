// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-lpc/hardsid/hspci"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func newShellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "read and write SID registers interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := opts.open()
			if err != nil {
				return err
			}
			defer drv.Close()

			return shell(cmd.OutOrStdout(), drv)
		},
	}
}

func histFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hsid-ctl.history")
}

func shell(w io.Writer, drv *hspci.Driver) error {
	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)
	term.SetCompleter(func(line string) []string {
		var cmds []string
		for _, c := range []string{"read", "store", "avail", "help", "quit"} {
			if strings.HasPrefix(c, line) {
				cmds = append(cmds, c)
			}
		}
		return cmds
	})

	hist := histFile()
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			_, _ = term.ReadHistory(f)
			f.Close()
		}
		defer func() {
			f, err := os.Create(hist)
			if err != nil {
				return
			}
			defer f.Close()
			_, _ = term.WriteHistory(f)
		}()
	}

	for {
		line, err := term.Prompt("hsid> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(w)
				return nil
			}
			return fmt.Errorf("could not read command: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		quit, err := eval(w, drv, line)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

const help = `commands:
  read  CHIP REG      read SID register REG of chip CHIP
  store CHIP REG VAL  write VAL to SID register REG of chip CHIP
  avail               print the number of usable SIDs
  help                print this help
  quit                leave the shell
numbers accept 0x, 0o and 0b prefixes.
`

// eval runs one shell command against drv.
func eval(w io.Writer, drv *hspci.Driver, line string) (quit bool, err error) {
	toks := strings.Fields(line)
	switch cmd, args := toks[0], toks[1:]; cmd {
	case "read", "r":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: read CHIP REG")
		}
		chip, reg, err := chipReg(args)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(w, "$%02X\n", drv.Read(reg, chip))

	case "store", "w":
		if len(args) != 3 {
			return false, fmt.Errorf("usage: store CHIP REG VAL")
		}
		chip, reg, err := chipReg(args)
		if err != nil {
			return false, err
		}
		v, err := strconv.ParseUint(args[2], 0, 8)
		if err != nil {
			return false, fmt.Errorf("could not parse value %q: %w", args[2], err)
		}
		drv.Store(reg, byte(v), chip)

	case "avail":
		fmt.Fprintf(w, "%d\n", drv.Available())

	case "help", "?":
		fmt.Fprint(w, help)

	case "quit", "exit", "q":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q", cmd)
	}
	return false, nil
}

func chipReg(args []string) (int, uint16, error) {
	chip, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("could not parse chip %q: %w", args[0], err)
	}
	reg, err := strconv.ParseUint(args[1], 0, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("could not parse register %q: %w", args[1], err)
	}
	return int(chip), uint16(reg), nil
}
