// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ftdi-eeprom builds, inspects and programs the configuration EEPROM of FTDI
// USB bridges.
package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"periph.io/x/eeprom/host/usbbus"
	"periph.io/x/periph"
)

// Context is passed to every command.
type Context struct {
	out io.Writer
	vid uint16
	pid uint16
}

// open initializes the drivers and opens the selected device.
func (c *Context) open() (*usbbus.Dev, error) {
	if err := initDrivers(); err != nil {
		return nil, err
	}
	d, err := usbbus.Open(c.vid, c.pid)
	if err != nil {
		return nil, err
	}
	log.Printf("opened %s", d)
	return d, nil
}

func initDrivers() error {
	state, err := periph.Init()
	if err != nil {
		return errors.Wrap(err, "initializing drivers")
	}
	for _, f := range state.Failed {
		log.Printf("%s: %v", f.D, f.Err)
	}
	return nil
}

var cli struct {
	VID     int  `optional type:"hex" help:"The USB Vendor ID." default:"403"`
	PID     int  `optional type:"hex" help:"The USB Product ID." default:"6010"`
	Verbose bool `short:"v" help:"Enable verbose logging."`
	NoColor bool `help:"Disable colored output."`

	List    ListCmd    `cmd help:"List the FTDI devices."`
	Dump    DumpCmd    `cmd help:"Read and dump the device EEPROM."`
	Decode  DecodeCmd  `cmd help:"Decode an EEPROM image."`
	Build   BuildCmd   `cmd help:"Build an EEPROM image from a YAML configuration."`
	Program ProgramCmd `cmd help:"Program a YAML configuration into the device EEPROM."`
	Map     MapCmd     `cmd help:"Show where each part of the configuration is stored."`
	FixECP5 FixECP5Cmd `cmd name:"fix-ecp5evn" help:"Make the second interface of the ECP5 evaluation board a serial port."`
}

func mainImpl() error {
	k, err := kong.New(&cli,
		kong.Name("ftdi-eeprom"),
		kong.Description("Builds, inspects and programs the configuration EEPROM of FTDI USB bridges."),
		kong.NamedMapper("hex", intMapper{base: 16}))
	if err != nil {
		return err
	}
	ctx, err := k.Parse(os.Args[1:])
	if err != nil {
		return err
	}
	log.SetFlags(log.Lmicroseconds)
	if !cli.Verbose {
		log.SetOutput(ioutil.Discard)
	}
	if cli.NoColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return ctx.Run(&Context{
		out: colorable.NewColorableStdout(),
		vid: uint16(cli.VID),
		pid: uint16(cli.PID),
	})
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ftdi-eeprom: %s.\n", err)
		os.Exit(1)
	}
}
