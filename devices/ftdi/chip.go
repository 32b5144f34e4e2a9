// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"strconv"
	"strings"
)

// VenID is the vendor ID for official FTDI devices.
const VenID uint16 = 0x0403

// Type is the FTDI chip variant.
//
// The order is significant: the EEPROM format grew by appending features, so
// a comparison like t > FT232BM selects every chip with the legacy PnP
// trailer.
type Type int

// Supported chip variants.
const (
	Unknown Type = iota
	FT232AM
	FT232BM
	FT2232C
	FT232R
	FT2232H
	FT4232H
	FT232H
	FT230X
)

var typeNames = [...]string{"Unknown", "FT232AM", "FT232BM", "FT2232C", "FT232R", "FT2232H", "FT4232H", "FT232H", "FT230X"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Valid returns true if t is one of the supported chip variants.
func (t Type) Valid() bool {
	return t > Unknown && t <= FT230X
}

// ParseType parses a chip variant name.
//
// It is case insensitive and the "FT" prefix is optional, so "2232h",
// "FT2232H" and "ft2232h" are all accepted. "AM" and "BM" are accepted for
// the two oldest variants.
func ParseType(s string) (Type, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(u, "FT") {
		switch u {
		case "AM", "BM":
			u = "FT232" + u
		default:
			u = "FT" + u
		}
	}
	for i := FT232AM; i <= FT230X; i++ {
		if typeNames[i] == u {
			return i, nil
		}
	}
	return Unknown, errUnknownType(s)
}

// TypeFromBCD returns the chip variant as reported by the bcdDevice field of
// the USB device descriptor.
func TypeFromBCD(bcd uint16) Type {
	switch bcd {
	case 0x0200:
		return FT232AM
	case 0x0400:
		return FT232BM
	case 0x0500:
		return FT2232C
	case 0x0600:
		return FT232R
	case 0x0700:
		return FT2232H
	case 0x0800:
		return FT4232H
	case 0x0900:
		return FT232H
	case 0x1000:
		return FT230X
	default:
		return Unknown
	}
}

// Chip identifiers of the external 93xx46/56/66 EEPROMs.
const (
	Chip93x46 byte = 0x46
	Chip93x56 byte = 0x56
	Chip93x66 byte = 0x66
)

// EEPROMSize returns the image size for the EEPROM chip identifier.
func EEPROMSize(chipID byte) int {
	if chipID == Chip93x56 || chipID == Chip93x66 {
		return 0x100
	}
	return 0x80
}

// MaxEEPROMSize is the largest image the builder produces.
const MaxEEPROMSize = 0x100

//

// variant holds the fixed per chip constants of the EEPROM format.
type variant struct {
	// stringBudget is the number of bytes available for the three identity
	// strings, before subtracting their doubled length.
	stringBudget int
	// stringStart is the position of the first string descriptor, before
	// wrapping to the EEPROM size.
	stringStart int
	// freeStart is the first byte not used by the fixed header.
	freeStart int
	// channels is the number of interfaces.
	channels int
	// layout describes every header byte written by the builder.
	layout layout
}

// variants is indexed by Type.
var variants = [...]*variant{
	FT232AM: {stringBudget: 96, stringStart: 0x94, freeStart: 0x14, channels: 1, layout: layoutAM},
	FT232BM: {stringBudget: 96, stringStart: 0x94, freeStart: 0x14, channels: 1, layout: layoutBM},
	FT2232C: {stringBudget: 90, stringStart: 0x96, freeStart: 0x15, channels: 2, layout: layout2232C},
	FT232R:  {stringBudget: 96, stringStart: 0x98, freeStart: 0x17, channels: 1, layout: layoutR},
	FT2232H: {stringBudget: 214, stringStart: 0x9a, freeStart: 0x19, channels: 2, layout: layout2232H},
	FT4232H: {stringBudget: 214, stringStart: 0x9a, freeStart: 0x19, channels: 4, layout: layout4232H},
	FT232H:  {stringBudget: 80, stringStart: 0xa0, freeStart: 0x1f, channels: 1, layout: layout232H},
	FT230X:  {stringBudget: 88, stringStart: 0xa0, freeStart: 0x21, channels: 1, layout: layout230X},
}

func lookup(t Type) *variant {
	if !t.Valid() {
		return nil
	}
	return variants[t]
}

// Channels returns the number of interfaces of the chip variant.
func (t Type) Channels() int {
	if v := lookup(t); v != nil {
		return v.channels
	}
	return 0
}

// Groups returns the number of configurable pin groups of the chip variant.
func (t Type) Groups() int {
	switch t {
	case FT2232H, FT4232H:
		return 4
	case FT232H:
		return 2
	default:
		return 0
	}
}
