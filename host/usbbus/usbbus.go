// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usbbus

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/gousb"
	"github.com/pkg/errors"
	"periph.io/x/eeprom/devices/ftdi"
	"periph.io/x/periph"
)

// ID is the vendor and product ID of an USB device.
type ID struct {
	VenID  uint16
	ProdID uint16
}

func (i ID) String() string {
	return fmt.Sprintf("%04x:%04x", i.VenID, i.ProdID)
}

// Desc represents the description of a FTDI device on an USB bus.
type Desc struct {
	ID   ID
	Bus  int
	Addr int
	// Type is derived from the device release number.
	Type ftdi.Type
}

func (d *Desc) String() string {
	return fmt.Sprintf("%s %s bus %d addr %d", d.Type, d.ID, d.Bus, d.Addr)
}

// Open opens the device at this bus address.
func (d *Desc) Open() (*Dev, error) {
	return open(func(desc *gousb.DeviceDesc) bool {
		return desc.Bus == d.Bus && desc.Address == d.Addr
	})
}

// All returns all the FTDI devices found by the driver.
func All() []Desc {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Desc, len(all))
	copy(out, all)
	return out
}

// Open opens the first device matching the vendor and product ID.
func Open(venID, prodID uint16) (*Dev, error) {
	return open(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == venID && uint16(desc.Product) == prodID
	})
}

//

var (
	mu  sync.Mutex
	all descriptors
	// enumerate is replaced in unit tests.
	enumerate = scanBus
)

type descriptors []Desc

func (d descriptors) Len() int      { return len(d) }
func (d descriptors) Swap(i, j int) { d[i], d[j] = d[j], d[i] }
func (d descriptors) Less(i, j int) bool {
	if d[i].Bus < d[j].Bus {
		return true
	}
	if d[i].Bus > d[j].Bus {
		return false
	}
	return d[i].Addr < d[j].Addr
}

func fromDesc(d *gousb.DeviceDesc) Desc {
	return Desc{
		ID:   ID{uint16(d.Vendor), uint16(d.Product)},
		Bus:  d.Bus,
		Addr: d.Address,
		Type: ftdi.TypeFromBCD(uint16(d.Device)),
	}
}

// scanBus returns the FTDI devices on the USB buses without opening them.
func scanBus() ([]Desc, error) {
	ctx := gousb.NewContext()
	defer ctx.Close()
	var out []Desc
	// Returning false keeps the device closed; only the descriptor is needed.
	_, err := ctx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		if uint16(d.Vendor) == ftdi.VenID {
			out = append(out, fromDesc(d))
		}
		return false
	})
	return out, err
}

// open opens the first device selected by match.
func open(match func(desc *gousb.DeviceDesc) bool) (*Dev, error) {
	ctx := gousb.NewContext()
	found := false
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if found || !match(desc) {
			return false
		}
		found = true
		return true
	})
	if len(devs) == 0 {
		ctx.Close()
		if err != nil {
			// If the user needs root access, LIBUSB_ERROR_ACCESS (-3) will be
			// returned.
			return nil, errors.Wrap(err, "usbbus: failed to open device")
		}
		return nil, errors.New("usbbus: device not found")
	}
	d := devs[0]
	desc := fromDesc(d.Desc)
	return newDev(desc, deviceName(d, &desc), &usbController{d: d, ctx: ctx}), nil
}

// deviceName returns the human readable manufacturer and product strings.
func deviceName(d *gousb.Device, desc *Desc) string {
	m, err1 := d.Manufacturer()
	p, err2 := d.Product()
	if err1 != nil || err2 != nil {
		// Sometimes the USB device will return junk, default to the vendor and
		// device ids.
		log.Printf("usbbus: %s string descriptors: %v, %v", desc.ID, err1, err2)
		return desc.ID.String()
	}
	return m + " " + p
}

// usbController owns the libusb context of a single device.
type usbController struct {
	d   *gousb.Device
	ctx *gousb.Context
}

func (u *usbController) Control(rType, request uint8, val, idx uint16, data []byte) (int, error) {
	return u.d.Control(rType, request, val, idx, data)
}

func (u *usbController) Close() error {
	err := u.d.Close()
	if err2 := u.ctx.Close(); err == nil {
		err = err2
	}
	return err
}

// driver implements periph.Driver.
type driver struct {
}

func (d *driver) String() string {
	return "usbbus"
}

func (d *driver) Prerequisites() []string {
	return nil
}

func (d *driver) After() []string {
	return nil
}

func (d *driver) Init() (bool, error) {
	found, err := enumerate()
	if err != nil {
		// Enumeration failures are common (permissions), keep what was found.
		log.Printf("usbbus: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	all = found
	sort.Sort(all)
	return true, err
}

func init() {
	periph.MustRegister(&driver{})
}

var _ periph.Driver = &driver{}
var _ controller = &usbController{}
