// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen implements a display.Drawer that outputs to a terminal
// using ANSI 256 color codes, one character cell per pixel.
//
// It is used to render EEPROM region maps.
package screen // import "periph.io/x/eeprom/devices/screen"

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/periph/conn/display"
)

// Dev is a pixel grid that outputs to the console.
type Dev struct {
	w      io.Writer
	pixels *image.NRGBA
	buf    bytes.Buffer
}

// New returns a Dev of w by h cells that writes to out.
//
// out defaults to a colorable stdout.
func New(out io.Writer, w, h int) *Dev {
	if out == nil {
		out = colorable.NewColorableStdout()
	}
	return &Dev{
		w:      out,
		pixels: image.NewNRGBA(image.Rect(0, 0, w, h)),
	}
}

func (d *Dev) String() string {
	return "Screen"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// Write accepts a stream of raw RGB pixels, row by row, and writes it to the
// console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("screen: invalid RGB stream length")
	}
	w := d.pixels.Rect.Dx()
	for i := 0; i < len(pixels)/3 && i < w*d.pixels.Rect.Dy(); i++ {
		d.pixels.SetNRGBA(i%w, i/w, color.NRGBA{pixels[3*i], pixels[3*i+1], pixels[3*i+2], 255})
	}
	return len(pixels), d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.pixels.Rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.pixels, r.Intersect(d.Bounds()), src, sp, draw.Src)
	return d.refresh()
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	r := d.pixels.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		_, _ = d.buf.WriteString("\033[0m")
		for x := r.Min.X; x < r.Max.X; x++ {
			_, _ = io.WriteString(&d.buf, ansi256.Default.Block(d.pixels.NRGBAAt(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
