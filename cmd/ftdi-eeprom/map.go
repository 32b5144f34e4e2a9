// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"periph.io/x/eeprom/devices/ftdi"
	"periph.io/x/eeprom/devices/screen"
)

// MapCmd shows which region of the EEPROM each byte belongs to.
type MapCmd struct {
	Config string `optional arg type:"existingfile" help:"YAML configuration. The device EEPROM is used when omitted."`
}

func (l *MapCmd) Run(c *Context) error {
	var img *ftdi.Image
	if l.Config != "" {
		cfg, err := loadConfig(l.Config)
		if err != nil {
			return err
		}
		if cfg.ChipID == 0 {
			cfg.ChipID = defaultChipID(cfg.Type)
		}
		if img, err = ftdi.Build(cfg, nil); err != nil {
			return err
		}
	} else {
		d, err := c.open()
		if err != nil {
			return err
		}
		defer d.Close()
		old, err := readDevice(d)
		if err != nil {
			return err
		}
		cfg, err := ftdi.Decode(d.Type(), old)
		if err != nil {
			return err
		}
		if img, err = ftdi.BuildInto(old, cfg, d); err != nil {
			return err
		}
	}
	return drawRegions(c.out, img)
}

// mapWidth is the number of bytes per row of the map.
const mapWidth = 16

var regionColors = [...]color.NRGBA{
	ftdi.Unused:  {0x30, 0x30, 0x30, 0xff},
	ftdi.Header:  {0x00, 0x80, 0xff, 0xff},
	ftdi.Strings: {0x00, 0xc0, 0x00, 0xff},
	ftdi.User:    {0xff, 0xc0, 0x00, 0xff},
	ftdi.Factory: {0xc0, 0x00, 0xc0, 0xff},
	ftdi.Trailer: {0xff, 0x00, 0x00, 0xff},
}

func drawRegions(w io.Writer, img *ftdi.Image) error {
	regions := img.Regions()
	rows := (len(regions) + mapWidth - 1) / mapWidth
	src := image.NewNRGBA(image.Rect(0, 0, mapWidth, rows))
	for i, r := range regions {
		src.SetNRGBA(i%mapWidth, i/mapWidth, regionColors[r])
	}
	fmt.Fprintf(w, "%s, %d bytes\n", img.Type, len(img.Data))
	s := screen.New(w, mapWidth, rows)
	if err := s.Draw(s.Bounds(), src, image.Point{}); err != nil {
		return err
	}
	for r := ftdi.Unused; r <= ftdi.Trailer; r++ {
		fmt.Fprintf(w, "%s\033[0m %s\n", ansi256.Default.Block(regionColors[r]), r)
	}
	return s.Halt()
}
