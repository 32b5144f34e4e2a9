// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftdi builds and decodes the EEPROM images of FTDI USB devices.
//
// The EEPROM holds the USB identity (vendor, product, strings), the power
// configuration and the chip specific pin configuration. Each chip variant
// has its own layout; Build serializes a Config into the layout of
// Config.Type and Decode does the reverse.
//
// This package does no I/O. Use periph.io/x/eeprom/host/usbbus to read and
// write the EEPROM of a connected device.
//
// Supported products
//
// FT232AM, FT232BM, FT2232C/D, FT232R, FT2232H, FT4232H, FT232H and the
// FT-X series (FT230X, FT231X, FT234XD).
//
// Datasheets
//
// http://www.ftdichip.com/Support/Documents/AppNotes/AN_121_FTDI_Device_EEPROM_User_Area_Usage.pdf
//
// http://www.ftdichip.com/Support/Documents/DataSheets/ICs/DS_FT232R.pdf
//
// http://www.ftdichip.com/Support/Documents/DataSheets/ICs/DS_FT2232H.pdf
//
// http://www.ftdichip.com/Support/Documents/DataSheets/ICs/DS_FT232H.pdf
package ftdi
