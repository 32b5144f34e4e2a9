// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdiconf

import (
	"periph.io/x/eeprom/devices/ftdi"
)

// DefaultMaxPowerMA is used when max_power_ma is not set.
const DefaultMaxPowerMA = 100

// Normalize fills in the defaults.
//
// It must be called after Validate.
func Normalize(f *File) {
	if f == nil {
		return
	}
	t, _ := ftdi.ParseType(f.Type)
	f.Type = t.String()
	if f.VendorID == 0 {
		f.VendorID = ftdi.VenID
	}
	if f.ProductID == 0 {
		f.ProductID = DefaultProductID(t)
	}
	if f.MaxPowerMA == nil {
		mA := DefaultMaxPowerMA
		f.MaxPowerMA = &mA
	}
}

// DefaultProductID returns the product ID the chip variant ships with.
func DefaultProductID(t ftdi.Type) uint16 {
	switch t {
	case ftdi.FT2232C, ftdi.FT2232H:
		return 0x6010
	case ftdi.FT4232H:
		return 0x6011
	case ftdi.FT232H:
		return 0x6014
	case ftdi.FT230X:
		return 0x6015
	default:
		return 0x6001
	}
}
