// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

// EncodeChannelType returns the bits stored in the EEPROM for the channel
// function f on chip t.
//
// A function the chip doesn't support is encoded as UART (0) without error,
// like the vendor tool does.
func EncodeChannelType(f ChannelType, t Type) byte {
	switch f {
	case FIFO:
		switch t {
		case FT2232C, FT232R, FT2232H, FT232H:
			return 0x01
		}
	case OPTO:
		switch t {
		case FT2232C, FT2232H, FT232H:
			return 0x02
		}
	case CPU:
		switch t {
		case FT2232C, FT2232H, FT232H:
			return 0x04
		}
	case FT1284Mode:
		if t == FT232H {
			return 0x08
		}
	}
	return 0
}

// DecodeChannelType is the inverse of EncodeChannelType.
//
// Only the lowest set bit is considered.
func DecodeChannelType(bits byte) ChannelType {
	switch {
	case bits&0x01 != 0:
		return FIFO
	case bits&0x02 != 0:
		return OPTO
	case bits&0x04 != 0:
		return CPU
	case bits&0x08 != 0:
		return FT1284Mode
	default:
		return UART
	}
}
