// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CBusFunction is stored in the EEPROM to control each CBus pin.
//
// The meaning of a value depends on the chip variant.
type CBusFunction uint8

// FT232R CBus functions.
const (
	// TXDEN; Tx Data Enable. Used with RS485 level converters to enable the line
	// driver during data transmit. It is active one bit time before the start
	// bit up to until the end of the stop bit (C0~C4).
	FT232RTxdEnable CBusFunction = 0x00
	// PWREN#; Output is low after the device has been configured by USB, then
	// high during USB suspend mode (C0~C4).
	//
	// Must be used with an external 10kΩ pull up.
	FT232RPwrEnable CBusFunction = 0x01
	// RXLED#; Pulses low when receiving data (C0~C4).
	FT232RRxLED CBusFunction = 0x02
	// TXLED#; Pulses low when transmitting data (C0~C4).
	FT232RTxLED CBusFunction = 0x03
	// TX&RXLED#; Pulses low when either receiving or transmitting data (C0~C4).
	FT232RTxRxLED CBusFunction = 0x04
	// SLEEP# Goes low during USB suspend mode (C0~C4).
	FT232RSleep CBusFunction = 0x05
	// CLK48 48Mhz +/-0.7% clock output (C0~C4).
	FT232RClk48 CBusFunction = 0x06
	// CLK24 24Mhz clock output (C0~C4).
	FT232RClk24 CBusFunction = 0x07
	// CLK12 12Mhz clock output (C0~C4).
	FT232RClk12 CBusFunction = 0x08
	// CLK6 6Mhz +/-0.7% clock output (C0~C4).
	FT232RClk6 CBusFunction = 0x09
	// CBitBangI/O; CBus bit-bang mode option (C0~C3).
	FT232RIOMode CBusFunction = 0x0A
	// BitBangWRn; CBus WR# strobe output (C0~C3).
	FT232RBitBangWR CBusFunction = 0x0B
	// BitBangRDn; CBus RD# strobe output (C0~C3).
	FT232RBitBangRD CBusFunction = 0x0C
)

// FT232H CBus functions.
const (
	// TriSt-PU; Sets in Tristate (pull up) (C0~C6, C8, C9) on 75kΩ.
	FT232HTristatePU CBusFunction = 0x00
	// TXLED#; Pulses low when transmitting data (C0~C6, C8, C9).
	FT232HTxLED CBusFunction = 0x01
	// RXLED#; Pulses low when receiving data (C0~C6, C8, C9).
	FT232HRxLED CBusFunction = 0x02
	// TX&RXLED#; Pulses low when either receiving or transmitting data (C0~C6,
	// C8, C9).
	FT232HTxRxLED CBusFunction = 0x03
	// PWREN#; Output is low after the device has been configured by USB, then
	// high during USB suspend mode (C0~C6, C8, C9).
	//
	// Must be used with an external 10kΩ pull up.
	FT232HPwrEnable CBusFunction = 0x04
	// SLEEP#; Goes low during USB suspend mode (C0~C6, C8, C9).
	FT232HSleep CBusFunction = 0x05
	// DRIVE0; Drives pin to logic 0 (C0~C6, C8, C9).
	FT232HDrive0 CBusFunction = 0x06
	// DRIVE1; Drives pin to logic 1 (C0, C5, C6, C8, C9).
	FT232HDrive1 CBusFunction = 0x07
	// I/O Mode; CBus bit-bang mode option (C5, C6, C8, C9).
	FT232HIOMode CBusFunction = 0x08
	// TXDEN; Tx Data Enable (C0~C6, C8, C9).
	FT232HTxdEnable CBusFunction = 0x09
	// CLK30 30MHz clock output (C0, C5, C6, C8, C9).
	FT232HClk30 CBusFunction = 0x0A
	// CLK15 15MHz clock output (C0, C5, C6, C8, C9).
	FT232HClk15 CBusFunction = 0x0B
	// CLK7.5 7.5MHz clock output (C0, C5, C6, C8, C9).
	FT232HClk7_5 CBusFunction = 0x0C
)

// FT230X CBus functions.
const (
	FT230XTristate    CBusFunction = 0x00
	FT230XTxLED       CBusFunction = 0x01
	FT230XRxLED       CBusFunction = 0x02
	FT230XTxRxLED     CBusFunction = 0x03
	FT230XPwrEnable   CBusFunction = 0x04
	FT230XSleep       CBusFunction = 0x05
	FT230XDrive0      CBusFunction = 0x06
	FT230XDrive1      CBusFunction = 0x07
	FT230XIOMode      CBusFunction = 0x08
	FT230XTxdEnable   CBusFunction = 0x09
	FT230XClk24       CBusFunction = 0x0A
	FT230XClk12       CBusFunction = 0x0B
	FT230XClk6        CBusFunction = 0x0C
	FT230XBatDetect   CBusFunction = 0x0D
	FT230XBatDetectN  CBusFunction = 0x0E
	FT230XI2CTxEmpty  CBusFunction = 0x0F
	FT230XI2CRxFull   CBusFunction = 0x10
	FT230XVBusSense   CBusFunction = 0x11
	FT230XBitBangWR   CBusFunction = 0x12
	FT230XBitBangRD   CBusFunction = 0x13
	FT230XTimeStamp   CBusFunction = 0x14
	FT230XKeepAwake   CBusFunction = 0x15
)

// cbusPins describes the CBus pins of a chip variant.
type cbusPins struct {
	names []string
	// max is the highest valid function per pin.
	max []CBusFunction
	// def is the function used when a pin is not configured or out of range.
	def []CBusFunction
}

var (
	cbusR = cbusPins{
		names: []string{"TXDEN", "PWREN", "RXLED", "TXLED", "TXRXLED", "SLEEP", "CLK48", "CLK24", "CLK12", "CLK6", "IOMODE", "BB_WR", "BB_RD"},
		max:   []CBusFunction{FT232RBitBangRD, FT232RBitBangRD, FT232RBitBangRD, FT232RBitBangRD, FT232RClk6},
		def:   []CBusFunction{FT232RTxLED, FT232RRxLED, FT232RTxdEnable, FT232RPwrEnable, FT232RSleep},
	}
	cbusH = cbusPins{
		names: []string{"TRISTATE", "TXLED", "RXLED", "TXRXLED", "PWREN", "SLEEP", "DRIVE0", "DRIVE1", "IOMODE", "TXDEN", "CLK30", "CLK15", "CLK7_5"},
		max:   repeatCBus(FT232HClk7_5, 10),
		def:   repeatCBus(FT232HTristatePU, 10),
	}
	cbusX = cbusPins{
		names: []string{"TRISTATE", "TXLED", "RXLED", "TXRXLED", "PWREN", "SLEEP", "DRIVE0", "DRIVE1", "IOMODE", "TXDEN", "CLK24", "CLK12", "CLK6", "BAT_DETECT", "BAT_DETECT_NEG", "I2C_TXE", "I2C_RXF", "VBUS_SENSE", "BB_WR", "BB_RD", "TIME_STAMP", "AWAKE"},
		max:   repeatCBus(FT230XKeepAwake, 7),
		def:   repeatCBus(FT230XTristate, 7),
	}
)

func repeatCBus(f CBusFunction, n int) []CBusFunction {
	out := make([]CBusFunction, n)
	for i := range out {
		out[i] = f
	}
	return out
}

func cbusFor(t Type) *cbusPins {
	switch t {
	case FT232R:
		return &cbusR
	case FT232H:
		return &cbusH
	case FT230X:
		return &cbusX
	default:
		return nil
	}
}

// CBusPins returns the number of configurable CBus pins of the chip variant.
func (t Type) CBusPins() int {
	if p := cbusFor(t); p != nil {
		return len(p.def)
	}
	return 0
}

// Name returns the function name on chip t, e.g. "TXLED".
func (f CBusFunction) Name(t Type) string {
	if p := cbusFor(t); p != nil && int(f) < len(p.names) {
		return p.names[f]
	}
	return "0x" + strconv.FormatUint(uint64(f), 16)
}

// ParseCBus parses a CBus function name for chip t.
//
// Numbers are accepted as-is, in any base strconv.ParseUint understands.
func ParseCBus(t Type, s string) (CBusFunction, error) {
	if v, err := strconv.ParseUint(s, 0, 8); err == nil {
		return CBusFunction(v), nil
	}
	p := cbusFor(t)
	if p == nil {
		return 0, errors.Errorf("ftdi: %s has no CBus pins", t)
	}
	u := strings.ToUpper(s)
	for i, n := range p.names {
		if n == u {
			return CBusFunction(i), nil
		}
	}
	return 0, errors.Errorf("ftdi: unknown %s CBus function %q", t, s)
}

// clamp returns the function to store for pin i.
func (p *cbusPins) clamp(c *Config, i int, w *warnings) CBusFunction {
	f, ok := c.cbus(i, p.def[i])
	if !ok {
		return f
	}
	if f > p.max[i] {
		w.add("CBus"+strconv.Itoa(i), "function 0x%02x out of range, using %s", uint8(f), p.def[i].Name(c.Type))
		return p.def[i]
	}
	return f
}
