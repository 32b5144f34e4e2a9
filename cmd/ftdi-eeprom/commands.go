// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
	"periph.io/x/eeprom/devices/ftdi"
	"periph.io/x/eeprom/devices/ftdi/ftdiconf"
	"periph.io/x/eeprom/host/usbbus"
)

// ListCmd lists the devices found by the usbbus driver.
type ListCmd struct {
}

func (l *ListCmd) Run(c *Context) error {
	if err := initDrivers(); err != nil {
		return err
	}
	all := usbbus.All()
	if len(all) == 0 {
		fmt.Fprintln(c.out, "No FTDI device found")
		return nil
	}
	for i := range all {
		fmt.Fprintf(c.out, "%s\n", &all[i])
	}
	return nil
}

// DumpCmd prints the device EEPROM and optionally saves it.
type DumpCmd struct {
	Output string `optional arg help:"File to write the image to."`
	Format string `enum:"auto,bin,hex" default:"auto" help:"Output file format."`
}

func (l *DumpCmd) Run(c *Context) error {
	d, err := c.open()
	if err != nil {
		return err
	}
	defer d.Close()
	raw, err := readDevice(d)
	if err != nil {
		return err
	}
	id, _ := d.ChipID()
	fmt.Fprintf(c.out, "%s, chip 0x%02x, %d bytes\n", d.Type(), id, len(raw))
	fmt.Fprint(c.out, hexdump(0, raw, nil))
	if err := ftdi.Verify(d.Type(), raw, d); err != nil {
		printWarning(c, err.Error())
	}
	if l.Output != "" {
		return writeImage(l.Output, l.Format, raw)
	}
	return nil
}

// DecodeCmd decodes an image file or the device EEPROM.
type DecodeCmd struct {
	File   string `optional arg type:"existingfile" help:"Image file. The device EEPROM is read when omitted."`
	Type   string `optional help:"Chip type of the image file, e.g. FT232R."`
	Format string `enum:"auto,bin,hex" default:"auto" help:"Image file format."`
	YAML   bool   `name:"yaml" help:"Print the configuration as YAML."`
}

func (l *DecodeCmd) Run(c *Context) error {
	var t ftdi.Type
	var raw []byte
	var r ftdi.WordReader
	if l.File != "" {
		var err error
		if t, err = ftdi.ParseType(l.Type); err != nil {
			return errors.Wrap(err, "--type is required with a file")
		}
		if raw, err = readImage(l.File, l.Format); err != nil {
			return err
		}
	} else {
		d, err := c.open()
		if err != nil {
			return err
		}
		defer d.Close()
		if raw, err = readDevice(d); err != nil {
			return err
		}
		t = d.Type()
		r = d
	}
	cfg, err := ftdi.Decode(t, raw)
	if err != nil {
		return err
	}
	if err := ftdi.Verify(t, raw, r); err != nil {
		printWarning(c, err.Error())
	}
	if !l.YAML {
		printConfig(c.out, cfg)
		return nil
	}
	y, err := ftdiconf.FromConfig(cfg).Marshal()
	if err != nil {
		return err
	}
	_, err = c.out.Write(y)
	return err
}

// BuildCmd writes the image of a YAML configuration to a file.
type BuildCmd struct {
	Config string `arg type:"existingfile" help:"YAML configuration."`
	Output string `arg help:"Image file to write."`
	Format string `enum:"auto,bin,hex" default:"auto" help:"Output file format."`
	Device bool   `help:"Query the device for the chip id and the FT230X factory words."`
}

func (l *BuildCmd) Run(c *Context) error {
	cfg, err := loadConfig(l.Config)
	if err != nil {
		return err
	}
	var dev ftdi.Device
	if l.Device {
		d, err := c.open()
		if err != nil {
			return err
		}
		defer d.Close()
		dev = d
	} else if cfg.ChipID == 0 {
		cfg.ChipID = defaultChipID(cfg.Type)
		log.Printf("no chip_id, assuming %#02x", cfg.ChipID)
	}
	img, err := ftdi.Build(cfg, dev)
	if err != nil {
		return err
	}
	printWarnings(c, img.Warnings)
	fmt.Fprintf(c.out, "%s: %d bytes, %d bytes free\n", img.Type, len(img.Data), img.UserAreaSize)
	return writeImage(l.Output, l.Format, img.Data)
}

// ProgramCmd programs a YAML configuration into the device EEPROM.
type ProgramCmd struct {
	Config string `arg type:"existingfile" help:"YAML configuration."`
	DryRun bool   `short:"n" help:"Show the changes without writing the EEPROM."`
}

func (l *ProgramCmd) Run(c *Context) error {
	cfg, err := loadConfig(l.Config)
	if err != nil {
		return err
	}
	d, err := c.open()
	if err != nil {
		return err
	}
	defer d.Close()
	if t := d.Type(); t != ftdi.Unknown && t != cfg.Type {
		return errors.Errorf("configuration is for %s but the device is a %s", cfg.Type, t)
	}
	old, err := readDevice(d)
	if err != nil {
		return err
	}
	return update(c, d, old, cfg, l.DryRun)
}

// FixECP5Cmd reconfigures the FT2232H of the Lattice ECP5 evaluation board
// so its second interface is usable as a serial port.
type FixECP5Cmd struct {
	DryRun bool `short:"n" help:"Show the changes without writing the EEPROM."`
}

func (l *FixECP5Cmd) Run(c *Context) error {
	d, err := c.open()
	if err != nil {
		return err
	}
	defer d.Close()
	if t := d.Type(); t != ftdi.FT2232H {
		return errors.Errorf("expected a FT2232H, found %s", t)
	}
	old, err := readDevice(d)
	if err != nil {
		return err
	}
	cfg, err := ftdi.Decode(ftdi.FT2232H, old)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Current configuration:")
	printConfig(c.out, cfg)
	fixECP5(cfg)
	fmt.Fprintln(c.out, "New configuration:")
	printConfig(c.out, cfg)
	return update(c, d, old, cfg, l.DryRun)
}

//

// readDevice reads the device EEPROM, truncated to the chip size.
func readDevice(d *usbbus.Dev) ([]byte, error) {
	raw, err := d.ReadEEPROM()
	if err != nil {
		return nil, err
	}
	id, err := d.ChipID()
	if err != nil {
		return nil, err
	}
	return raw[:ftdi.EEPROMSize(id)], nil
}

// loadConfig loads, validates and converts a YAML configuration.
func loadConfig(path string) (*ftdi.Config, error) {
	f, err := ftdiconf.Load(path)
	if err != nil {
		return nil, err
	}
	if err := ftdiconf.Validate(f); err != nil {
		return nil, errors.Wrap(err, path)
	}
	ftdiconf.Normalize(f)
	return f.Config()
}

// defaultChipID returns the chip id assumed when neither the configuration
// nor the device provides one. The FT230X header does not fit in a 93x46.
func defaultChipID(t ftdi.Type) byte {
	if t == ftdi.FT230X {
		return ftdi.Chip93x56
	}
	return ftdi.Chip93x46
}

// update rebuilds old with cfg, shows the changes and writes them unless
// dry is set. The device is reset afterward so it reloads its
// configuration.
func update(c *Context, d *usbbus.Dev, old []byte, cfg *ftdi.Config, dry bool) error {
	buf := make([]byte, len(old))
	copy(buf, old)
	img, err := ftdi.BuildInto(buf, cfg, d)
	if err != nil {
		return err
	}
	printWarnings(c, img.Warnings)
	mark, n := diff(old, img.Data)
	if n == 0 {
		fmt.Fprintln(c.out, "EEPROM is already up to date")
		return nil
	}
	fmt.Fprintf(c.out, "%d bytes changed:\n%s", n, hexdump(0, img.Data, mark))
	if dry {
		fmt.Fprintln(c.out, "Dry run, EEPROM not written")
		return nil
	}
	if err := d.WriteEEPROM(img.Data); err != nil {
		return err
	}
	if err := d.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "EEPROM updated")
	return nil
}
