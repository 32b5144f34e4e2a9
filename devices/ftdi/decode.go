// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"bytes"

	"github.com/pkg/errors"
)

// Decode parses an EEPROM image of chip t back into a Config.
//
// The checksum is not verified, use Verify for that. Decoding the output of
// Build returns the Config it was built from, except for the values that
// were clamped or defaulted and for a 0 drive strength which is returned as
// 4mA.
func Decode(t Type, b []byte) (*Config, error) {
	v := lookup(t)
	if v == nil {
		return nil, errors.Wrapf(ErrUnknownChip, "chip type %s", t)
	}
	if len(b) != 0x80 && len(b) != 0x100 {
		return nil, errors.Errorf("ftdi: invalid eeprom image size %d", len(b))
	}
	c := &Config{Type: t, Size: len(b)}
	v.layout.decode(b, c)
	if c.ChipID == 0 {
		c.ChipID = DetectChipID(t, b)
	}
	c.Manufacturer, _ = readString(b, b[0x0e], b[0x0f])
	c.Product, _ = readString(b, b[0x10], b[0x11])
	var next int
	c.Serial, next = readString(b, b[0x12], b[0x13])
	if t > FT232BM {
		c.NotPnP = b[(next+2)&(len(b)-1)] != 0
	}
	return c, nil
}

// DetectChipID returns the EEPROM chip identifier from the raw content of
// the EEPROM, as read from the device.
//
// raw should be 256 bytes long. The identifier stored in the image is used
// when valid. Otherwise it is guessed: a 93x46 has 128 bytes so its content
// repeats at 0x80.
func DetectChipID(t Type, raw []byte) byte {
	if off := chipIDOffset(t); off >= 0 && off < len(raw) {
		switch id := raw[off]; id {
		case Chip93x46, Chip93x56, Chip93x66:
			return id
		}
	}
	if len(raw) < 0x100 || bytes.Equal(raw[:0x80], raw[0x80:0x100]) {
		return Chip93x46
	}
	return Chip93x56
}

//

// readString reads the USB string descriptor at off. It returns the string
// and the position right after it.
func readString(b []byte, off, length byte) (string, int) {
	mask := len(b) - 1
	pos := int(off) & mask
	n := 0
	if length >= 2 {
		n = int(length-2) / 2
	}
	s := make([]byte, n)
	for i := range s {
		s[i] = b[(pos+2+2*i)&mask]
	}
	return string(s), pos + int(length)
}

// chipIDOffset returns the offset of the chip identifier in the header, or
// -1 if the variant doesn't store it.
func chipIDOffset(t Type) int {
	if v := lookup(t); v != nil {
		for i := range v.layout {
			if v.layout[i].name == "ChipID" {
				return v.layout[i].off
			}
		}
	}
	return -1
}
