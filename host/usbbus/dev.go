// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usbbus

import (
	"encoding/binary"
	"log"

	"github.com/pkg/errors"
	"periph.io/x/eeprom/devices/ftdi"
	"periph.io/x/periph/conn"
)

// Dev is an open FTDI device.
//
// It implements ftdi.Device so it can be passed to ftdi.Build. It must not be
// used concurrently.
type Dev struct {
	desc Desc
	name string
	c    controller
	// chipID is cached after the first successful ChipID call.
	chipID byte
}

func (d *Dev) String() string {
	return d.name
}

// Halt implements conn.Resource.
//
// There is no ongoing operation to stop.
func (d *Dev) Halt() error {
	return nil
}

// Close closes the handle to the device.
func (d *Dev) Close() error {
	return d.c.Close()
}

// Desc returns the bus description of the device.
func (d *Dev) Desc() Desc {
	return d.desc
}

// Type returns the chip variant, as reported by the USB descriptor.
func (d *Dev) Type() ftdi.Type {
	return d.desc.Type
}

// ReadWord implements ftdi.WordReader.
func (d *Dev) ReadWord(addr uint16) (uint16, error) {
	var b [2]byte
	n, err := d.c.Control(reqIn, sioReadEEPROM, 0, addr, b[:])
	if err != nil {
		return 0, errors.Wrapf(err, "usbbus: reading eeprom word 0x%02x", addr)
	}
	if n != 2 {
		return 0, errors.Errorf("usbbus: reading eeprom word 0x%02x: short read %d", addr, n)
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// WriteWord writes one word of the EEPROM.
func (d *Dev) WriteWord(addr, v uint16) error {
	if _, err := d.c.Control(reqOut, sioWriteEEPROM, v, addr, nil); err != nil {
		return errors.Wrapf(err, "usbbus: writing eeprom word 0x%02x", addr)
	}
	return nil
}

// ReadEEPROM reads the whole EEPROM.
//
// It always reads 256 bytes. A 93x46 EEPROM returns its 128 bytes twice.
func (d *Dev) ReadEEPROM() ([]byte, error) {
	b := make([]byte, ftdi.MaxEEPROMSize)
	for i := 0; i < len(b)/2; i++ {
		v, err := d.ReadWord(uint16(i))
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	return b, nil
}

// WriteEEPROM writes an image as produced by ftdi.Build.
//
// The FT230X factory configuration words are skipped.
func (d *Dev) WriteEEPROM(b []byte) error {
	if len(b) != 0x80 && len(b) != 0x100 {
		return errors.Errorf("usbbus: invalid eeprom image size %d", len(b))
	}
	if err := d.unlock(); err != nil {
		return err
	}
	for i := 0; i < len(b)/2; i++ {
		if d.desc.Type == ftdi.FT230X && i >= 0x40 && i < 0x50 {
			continue
		}
		if err := d.WriteWord(uint16(i), binary.LittleEndian.Uint16(b[2*i:])); err != nil {
			return err
		}
	}
	log.Printf("usbbus: %s: wrote %d bytes", d, len(b))
	return nil
}

// ChipID implements ftdi.Device.
//
// It reads the EEPROM and looks for the identifier stored by the vendor
// tool, then for the 128 bytes aliasing of a 93x46.
func (d *Dev) ChipID() (byte, error) {
	if d.chipID == 0 {
		raw, err := d.ReadEEPROM()
		if err != nil {
			return 0, err
		}
		d.chipID = ftdi.DetectChipID(d.desc.Type, raw)
	}
	return d.chipID, nil
}

// Reset resets the device's UART so it reloads its configuration.
func (d *Dev) Reset() error {
	if _, err := d.c.Control(reqOut, sioReset, sioResetSIO, 0, nil); err != nil {
		return errors.Wrap(err, "usbbus: reset")
	}
	d.chipID = 0
	return nil
}

//

// controller is the control endpoint of an USB device. *gousb.Device
// implements it.
type controller interface {
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)
	Close() error
}

// Vendor requests to the device.
const (
	reqOut uint8 = 0x40 // Host to device, vendor, device
	reqIn  uint8 = 0xc0 // Device to host, vendor, device

	sioReset           uint8 = 0x00
	sioPollModemStatus uint8 = 0x05
	sioSetLatency      uint8 = 0x09
	sioReadEEPROM      uint8 = 0x90
	sioWriteEEPROM     uint8 = 0x91

	sioResetSIO uint16 = 0
)

func newDev(desc Desc, name string, c controller) *Dev {
	return &Dev{desc: desc, name: name, c: c}
}

// unlock sends the sequence that enables EEPROM writes, as traced from
// FTDI's MProg. The FT232R ignores writes without it.
func (d *Dev) unlock() error {
	if _, err := d.c.Control(reqOut, sioReset, sioResetSIO, 0, nil); err != nil {
		return errors.Wrap(err, "usbbus: reset")
	}
	var status [2]byte
	if _, err := d.c.Control(reqIn, sioPollModemStatus, 0, 0, status[:]); err != nil {
		return errors.Wrap(err, "usbbus: modem status")
	}
	if _, err := d.c.Control(reqOut, sioSetLatency, 0x77, 0, nil); err != nil {
		return errors.Wrap(err, "usbbus: latency timer")
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ ftdi.Device = &Dev{}
