// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"strconv"

	"periph.io/x/periph/conn/physic"
)

// Config is the content to serialize into an EEPROM image.
//
// It is owned by the caller and is never modified by Build.
type Config struct {
	// Type is the chip variant. It selects the image layout.
	Type Type
	// ChipID is the EEPROM chip identifier (0x46, 0x56 or 0x66). When 0, it is
	// queried from the Device passed to Build.
	ChipID byte
	// Size overrides the image size derived from ChipID. Valid values are 0,
	// 128 and 256.
	Size int

	VendorID  uint16 // Defaults to 0x0403
	ProductID uint16 // e.g. 0x6001, 0x6010, 0x6011, 0x6014, 0x6015
	Release   uint16 // Device release number

	SelfPowered      bool // false if powered by the USB bus
	RemoteWakeup     bool //
	UseSerial        bool // Report the serial number string
	InIsochronous    bool // In endpoint is isochronous
	OutIsochronous   bool // Out endpoint is isochronous
	SuspendPullDowns bool // Enable suspend pull downs for lower power
	UseUSBVersion    bool // FT232BM, FT2232C: override the USB version
	USBVersion       uint16

	// MaxPower is the maximum current drawn from the bus. It is stored in 2mA
	// units.
	MaxPower physic.ElectricCurrent

	// Manufacturer, Product and Serial are the USB string descriptors. They
	// are expected to be ASCII.
	Manufacturer string
	Product      string
	Serial       string
	// NotPnP is the last byte of the legacy PnP trailer.
	NotPnP bool

	// Groups is the electrical configuration of the pin groups. FT2232H and
	// FT4232H have 4 groups, FT232H has 2 (AC and AD bus).
	Groups [4]Group
	// Channels is the per interface configuration, A to D.
	Channels [4]Channel
	// CBus is the function of each CBUS pin. Missing pins get the chip's
	// default function.
	CBus []CBusFunction

	// FT232R specific data.
	ExternalOscillator bool // Use external oscillator
	Invert             byte // Invert UART signals bitmask; also FT230X

	// FT2232H specific data.
	SuspendDBus7 bool // Suspend on DBUS7 low

	// FT232H specific data.
	PowerSave bool // Suspend on ACBUS7 low
	FT1284    FT1284

	// UserData is written verbatim in the image, if present.
	UserData *UserData
}

// Group is the electrical configuration of a group of I/O pins.
type Group struct {
	// Drive is the drive strength. Valid values are 4mA, 8mA, 12mA, 16mA. 0
	// means 4mA.
	Drive    physic.ElectricCurrent
	SlowSlew bool
	Schmitt  bool
}

// Channel is the configuration of one interface.
type Channel struct {
	Type        ChannelType
	Driver      Driver
	RS485       bool // FT4232H only
	HighCurrent bool // FT2232C and FT232R only
}

// FT1284 is the FT232H FT1284 interface configuration.
type FT1284 struct {
	ClockIdleHigh bool // Clock idles high instead of low
	DataLSB       bool // Data is LSB first instead of MSB
	FlowControl   bool
}

// UserData is arbitrary data stored at a fixed offset in the image.
type UserData struct {
	Offset int
	Data   []byte
}

// ChannelType is the function of an interface.
type ChannelType uint8

// Channel functions.
const (
	UART ChannelType = iota
	FIFO
	OPTO
	CPU
	FT1284Mode
)

var channelTypeNames = [...]string{"UART", "FIFO", "OPTO", "CPU", "FT1284"}

func (c ChannelType) String() string {
	if int(c) < len(channelTypeNames) {
		return channelTypeNames[c]
	}
	return "ChannelType(" + strconv.Itoa(int(c)) + ")"
}

// Driver is the host driver the interface binds to.
type Driver uint8

// Drivers.
const (
	D2XX Driver = iota
	VCP
)

func (d Driver) String() string {
	if d == VCP {
		return "VCP"
	}
	return "D2XX"
}

// cbus returns the function of pin i, or def if the pin is not configured.
func (c *Config) cbus(i int, def CBusFunction) (CBusFunction, bool) {
	if i < len(c.CBus) {
		return c.CBus[i], true
	}
	return def, false
}

func (c *Config) setCBus(i int, f CBusFunction) {
	for len(c.CBus) <= i {
		c.CBus = append(c.CBus, 0)
	}
	c.CBus[i] = f
}
