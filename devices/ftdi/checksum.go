// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"
)

const checksumSeed uint16 = 0xaaaa

// FT230X checksum exclusions, in words. Words [0x12, 0x40) are not covered;
// words [0x40, 0x50) are the factory configuration and are read from the
// device.
const (
	skipFrom = 0x12
	skipTo   = 0x40
	liveEnd  = 0x50
)

// Checksum calculates the checksum of the EEPROM image b, excluding the last
// word which is where it is stored.
//
// r is only used for FT230X. When it is nil or a read fails, 0 is used for
// the remaining factory configuration words and a warning is returned.
func Checksum(t Type, b []byte, r WordReader) (uint16, []Warning) {
	var w warnings
	sum := checksumSeed
	n := len(b)/2 - 1
	live := true
	for i := 0; i < n; i++ {
		if t == FT230X && i == skipFrom {
			i = skipTo
			if i >= n {
				break
			}
		}
		var v uint16
		if t == FT230X && i >= skipTo && i < liveEnd {
			if live {
				v, live = readFactory(r, i, &w)
			}
		} else {
			v = binary.LittleEndian.Uint16(b[2*i:])
		}
		sum = bits.RotateLeft16(sum^v, 1)
	}
	return sum, w
}

// Verify returns a *ChecksumError if the trailer of b doesn't match its
// content.
func Verify(t Type, b []byte, r WordReader) error {
	if len(b) != 0x80 && len(b) != 0x100 {
		return errors.Errorf("ftdi: invalid eeprom image size %d", len(b))
	}
	sum, _ := Checksum(t, b, r)
	if actual := binary.LittleEndian.Uint16(b[len(b)-2:]); actual != sum {
		return &ChecksumError{Type: t, Expected: sum, Actual: actual}
	}
	return nil
}

func readFactory(r WordReader, i int, w *warnings) (uint16, bool) {
	if r == nil {
		w.add("Checksum", "no device to read factory words 0x%02x-0x%02x, using 0", i, liveEnd-1)
		return 0, false
	}
	v, err := r.ReadWord(uint16(i))
	if err != nil {
		w.add("Checksum", "reading word 0x%02x: %v; using 0 up to 0x%02x", i, err, liveEnd-1)
		return 0, false
	}
	return v, true
}
