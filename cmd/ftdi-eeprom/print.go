// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"

	"github.com/fatih/color"
	"periph.io/x/eeprom/devices/ftdi"
	"periph.io/x/periph/conn/physic"
)

func printConfig(w io.Writer, c *ftdi.Config) {
	fmt.Fprintf(w, "  Type:           %s\n", c.Type)
	fmt.Fprintf(w, "  ChipID:         %#02x\n", c.ChipID)
	fmt.Fprintf(w, "  Vendor ID:      %#04x\n", c.VendorID)
	fmt.Fprintf(w, "  Product ID:     %#04x\n", c.ProductID)
	fmt.Fprintf(w, "  Release:        %#04x\n", c.Release)
	fmt.Fprintf(w, "  Manufacturer:   %s\n", c.Manufacturer)
	fmt.Fprintf(w, "  Product:        %s\n", c.Product)
	fmt.Fprintf(w, "  Serial:         %s\n", c.Serial)
	fmt.Fprintf(w, "  UseSerial:      %t\n", c.UseSerial)
	fmt.Fprintf(w, "  MaxPower:       %s\n", c.MaxPower)
	fmt.Fprintf(w, "  SelfPowered:    %t\n", c.SelfPowered)
	fmt.Fprintf(w, "  RemoteWakeup:   %t\n", c.RemoteWakeup)
	fmt.Fprintf(w, "  PullDownEnable: %t\n", c.SuspendPullDowns)
	for i := 0; i < c.Type.Channels(); i++ {
		ch := c.Channels[i]
		fmt.Fprintf(w, "  Channel%c:       %s %s", 'A'+i, ch.Type, ch.Driver)
		if ch.RS485 {
			fmt.Fprint(w, " RS485")
		}
		if ch.HighCurrent {
			fmt.Fprint(w, " HighCurrent")
		}
		fmt.Fprintln(w)
	}
	for i := 0; i < c.Type.Groups(); i++ {
		g := c.Groups[i]
		fmt.Fprintf(w, "  Group%d:         %s", i, g.Drive)
		if g.SlowSlew {
			fmt.Fprint(w, " SlowSlew")
		}
		if g.Schmitt {
			fmt.Fprint(w, " Schmitt")
		}
		fmt.Fprintln(w)
	}
	for i, f := range c.CBus {
		fmt.Fprintf(w, "  CBus%d:          %s\n", i, f.Name(c.Type))
	}
	switch c.Type {
	case ftdi.FT232R:
		fmt.Fprintf(w, "  ExternalOsc:    %t\n", c.ExternalOscillator)
		fmt.Fprintf(w, "  Invert:         %#02x\n", c.Invert)
	case ftdi.FT230X:
		fmt.Fprintf(w, "  Invert:         %#02x\n", c.Invert)
	case ftdi.FT2232H:
		fmt.Fprintf(w, "  SuspendDBus7:   %t\n", c.SuspendDBus7)
	case ftdi.FT232H:
		fmt.Fprintf(w, "  PowerSave:      %t\n", c.PowerSave)
		fmt.Fprintf(w, "  FT1248Cpol:     %t\n", c.FT1284.ClockIdleHigh)
		fmt.Fprintf(w, "  FT1248Lsb:      %t\n", c.FT1284.DataLSB)
		fmt.Fprintf(w, "  FT1248FlowCtrl: %t\n", c.FT1284.FlowControl)
	}
}

func printWarnings(c *Context, w []ftdi.Warning) {
	for _, x := range w {
		printWarning(c, x.String())
	}
}

func printWarning(c *Context, msg string) {
	log.Printf("warning: %s", msg)
	color.New(color.FgYellow).Fprintf(c.out, "warning: %s\n", msg)
}

// fixECP5 drives the second interface pins of the ECP5 evaluation board at
// 4mA with a slow slew rate and binds it to the serial port driver.
func fixECP5(c *ftdi.Config) {
	for _, g := range []int{2, 3} {
		c.Groups[g].Drive = 4 * physic.MilliAmpere
		c.Groups[g].SlowSlew = true
	}
	c.Channels[1].Type = ftdi.UART
	c.Channels[1].Driver = ftdi.VCP
}
