// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usbbus reads and writes the EEPROM of FTDI devices over libusb.
//
// It talks to the device with vendor control requests only, so it works
// while the kernel's ftdi_sio driver is bound to the serial interfaces.
//
// Importing the package registers a periph driver that lists the FTDI
// devices found on the USB buses; call periph.Init() or host.Init() then
// All().
//
// Debian
//
// Install libusb:
//  sudo apt install libusb-1.0-0-dev
//
// Access to the device requires root or an udev rule like:
//  SUBSYSTEM=="usb", ATTR{idVendor}=="0403", MODE="0664", GROUP="plugdev"
//
// MacOS
//
//  brew install libusb
package usbbus
