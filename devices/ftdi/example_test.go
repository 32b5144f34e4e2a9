// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi_test

import (
	"fmt"
	"log"

	"periph.io/x/eeprom/devices/ftdi"
	"periph.io/x/periph/conn/physic"
)

func ExampleBuild() {
	c := ftdi.Config{
		Type:         ftdi.FT232R,
		ChipID:       ftdi.Chip93x46,
		VendorID:     0x0403,
		ProductID:    0x6001,
		MaxPower:     90 * physic.MilliAmpere,
		Manufacturer: "FTDI",
		Product:      "FT232R USB UART",
		Serial:       "A50285BI",
	}
	img, err := ftdi.Build(&c, nil)
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range img.Warnings {
		log.Print(w)
	}
	fmt.Printf("%d bytes, %d bytes free\n", len(img.Data), img.UserAreaSize)
	fmt.Printf("% x\n", img.Data[:0x0a])
	fmt.Println(ftdi.Verify(ftdi.FT232R, img.Data, nil))
	// Output:
	// 128 bytes, 42 bytes free
	// 00 40 03 04 01 60 00 00 80 2d
	// <nil>
}

func ExampleDecode() {
	c := ftdi.Config{
		Type:         ftdi.FT2232H,
		ChipID:       ftdi.Chip93x56,
		VendorID:     0x0403,
		ProductID:    0x6010,
		Manufacturer: "Lattice",
		Product:      "Lattice ECP5 Evaluation Board",
	}
	img, err := ftdi.Build(&c, nil)
	if err != nil {
		log.Fatal(err)
	}
	d, err := ftdi.Decode(ftdi.FT2232H, img.Data)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s %#04x:%#04x %q %q\n", d.Type, d.VendorID, d.ProductID, d.Manufacturer, d.Product)
	fmt.Printf("Group0: %s\n", d.Groups[0].Drive)
	// Output:
	// FT2232H 0x0403:0x6010 "Lattice" "Lattice ECP5 Evaluation Board"
	// Group0: 4mA
}
