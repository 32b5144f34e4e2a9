// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdiconf

import (
	"bytes"
	"encoding/hex"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"periph.io/x/eeprom/devices/ftdi"
	"periph.io/x/periph/conn/physic"
)

// File is the YAML representation of an EEPROM configuration.
type File struct {
	Type      string `yaml:"type"`
	ChipID    uint8  `yaml:"chip_id,omitempty"`
	Size      int    `yaml:"size,omitempty"`
	VendorID  uint16 `yaml:"vendor_id"`
	ProductID uint16 `yaml:"product_id"`
	Release   uint16 `yaml:"release,omitempty"`

	SelfPowered      bool   `yaml:"self_powered,omitempty"`
	RemoteWakeup     bool   `yaml:"remote_wakeup,omitempty"`
	UseSerial        bool   `yaml:"use_serial,omitempty"`
	InIsochronous    bool   `yaml:"in_isochronous,omitempty"`
	OutIsochronous   bool   `yaml:"out_isochronous,omitempty"`
	SuspendPullDowns bool   `yaml:"suspend_pull_downs,omitempty"`
	UseUSBVersion    bool   `yaml:"use_usb_version,omitempty"`
	USBVersion       uint16 `yaml:"usb_version,omitempty"`

	// MaxPowerMA is nil when not set; 0 is a valid value.
	MaxPowerMA *int `yaml:"max_power_ma,omitempty"`

	Manufacturer string `yaml:"manufacturer"`
	Product      string `yaml:"product"`
	Serial       string `yaml:"serial,omitempty"`
	NotPnP       bool   `yaml:"not_pnp,omitempty"`

	Groups []Group `yaml:"groups,omitempty"`
	// Channels is keyed by the lower case channel letter.
	Channels map[string]Channel `yaml:"channels,omitempty"`
	// CBus is the function name or number of each pin.
	CBus []string `yaml:"cbus,omitempty"`

	Invert             uint8   `yaml:"invert,omitempty"`
	ExternalOscillator bool    `yaml:"external_oscillator,omitempty"`
	SuspendDBus7       bool    `yaml:"suspend_dbus7,omitempty"`
	PowerSave          bool    `yaml:"power_save,omitempty"`
	FT1284             *FT1284 `yaml:"ft1284,omitempty"`

	UserData *UserData `yaml:"user_data,omitempty"`
}

// Group is a pin group electrical configuration.
type Group struct {
	DriveMA  int  `yaml:"drive_ma"`
	SlowSlew bool `yaml:"slow_slew,omitempty"`
	Schmitt  bool `yaml:"schmitt,omitempty"`
}

// Channel is one interface configuration.
type Channel struct {
	Type        string `yaml:"type,omitempty"`
	Driver      string `yaml:"driver,omitempty"`
	RS485       bool   `yaml:"rs485,omitempty"`
	HighCurrent bool   `yaml:"high_current,omitempty"`
}

// FT1284 is the FT232H FT1284 interface configuration.
type FT1284 struct {
	ClockIdleHigh bool `yaml:"clock_idle_high,omitempty"`
	DataLSB       bool `yaml:"data_lsb,omitempty"`
	FlowControl   bool `yaml:"flow_control,omitempty"`
}

// UserData is data stored in the free area of the EEPROM.
type UserData struct {
	Offset int `yaml:"offset"`
	// Hex is the hex encoded content. Spaces are ignored.
	Hex string `yaml:"hex"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "ftdiconf")
	}
	f, err := Parse(b)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return f, nil
}

// Parse parses a YAML configuration. Unknown keys are rejected.
func Parse(b []byte) (*File, error) {
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	f := &File{}
	if err := d.Decode(f); err != nil {
		return nil, errors.Wrap(err, "ftdiconf: invalid yaml")
	}
	return f, nil
}

// Marshal returns the YAML representation of f.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	e := yaml.NewEncoder(&buf)
	e.SetIndent(2)
	if err := e.Encode(f); err != nil {
		return nil, errors.Wrap(err, "ftdiconf")
	}
	if err := e.Close(); err != nil {
		return nil, errors.Wrap(err, "ftdiconf")
	}
	return buf.Bytes(), nil
}

// Config converts f into the builder's configuration.
//
// f should have been validated first; the first invalid value is returned
// as an error anyway.
func (f *File) Config() (*ftdi.Config, error) {
	t, err := ftdi.ParseType(f.Type)
	if err != nil {
		return nil, err
	}
	c := &ftdi.Config{
		Type:               t,
		ChipID:             f.ChipID,
		Size:               f.Size,
		VendorID:           f.VendorID,
		ProductID:          f.ProductID,
		Release:            f.Release,
		SelfPowered:        f.SelfPowered,
		RemoteWakeup:       f.RemoteWakeup,
		UseSerial:          f.UseSerial,
		InIsochronous:      f.InIsochronous,
		OutIsochronous:     f.OutIsochronous,
		SuspendPullDowns:   f.SuspendPullDowns,
		UseUSBVersion:      f.UseUSBVersion,
		USBVersion:         f.USBVersion,
		MaxPower:           physic.ElectricCurrent(f.maxPowerMA()) * physic.MilliAmpere,
		Manufacturer:       f.Manufacturer,
		Product:            f.Product,
		Serial:             f.Serial,
		NotPnP:             f.NotPnP,
		Invert:             f.Invert,
		ExternalOscillator: f.ExternalOscillator,
		SuspendDBus7:       f.SuspendDBus7,
		PowerSave:          f.PowerSave,
	}
	if len(f.Groups) > len(c.Groups) {
		return nil, errors.Errorf("ftdiconf: %d groups, maximum is %d", len(f.Groups), len(c.Groups))
	}
	for i, g := range f.Groups {
		c.Groups[i] = ftdi.Group{
			Drive:    physic.ElectricCurrent(g.DriveMA) * physic.MilliAmpere,
			SlowSlew: g.SlowSlew,
			Schmitt:  g.Schmitt,
		}
	}
	for name, ch := range f.Channels {
		i, err := channelIndex(name)
		if err != nil {
			return nil, err
		}
		if c.Channels[i], err = ch.channel(); err != nil {
			return nil, errors.Wrapf(err, "channel %s", name)
		}
	}
	for i, s := range f.CBus {
		fn, err := ftdi.ParseCBus(t, s)
		if err != nil {
			return nil, errors.Wrapf(err, "cbus %d", i)
		}
		c.CBus = append(c.CBus, fn)
	}
	if f.FT1284 != nil {
		c.FT1284 = ftdi.FT1284{
			ClockIdleHigh: f.FT1284.ClockIdleHigh,
			DataLSB:       f.FT1284.DataLSB,
			FlowControl:   f.FT1284.FlowControl,
		}
	}
	if f.UserData != nil {
		b, err := f.UserData.bytes()
		if err != nil {
			return nil, err
		}
		c.UserData = &ftdi.UserData{Offset: f.UserData.Offset, Data: b}
	}
	return c, nil
}

// FromConfig returns the YAML representation of c, usually the output of
// ftdi.Decode.
//
// Only the values stored by c.Type are kept.
func FromConfig(c *ftdi.Config) *File {
	mA := int(c.MaxPower / physic.MilliAmpere)
	f := &File{
		Type:               c.Type.String(),
		ChipID:             c.ChipID,
		Size:               c.Size,
		VendorID:           c.VendorID,
		ProductID:          c.ProductID,
		Release:            c.Release,
		SelfPowered:        c.SelfPowered,
		RemoteWakeup:       c.RemoteWakeup,
		UseSerial:          c.UseSerial,
		InIsochronous:      c.InIsochronous,
		OutIsochronous:     c.OutIsochronous,
		SuspendPullDowns:   c.SuspendPullDowns,
		UseUSBVersion:      c.UseUSBVersion,
		USBVersion:         c.USBVersion,
		MaxPowerMA:         &mA,
		Manufacturer:       c.Manufacturer,
		Product:            c.Product,
		Serial:             c.Serial,
		NotPnP:             c.NotPnP,
		Invert:             c.Invert,
		ExternalOscillator: c.ExternalOscillator,
		SuspendDBus7:       c.SuspendDBus7,
		PowerSave:          c.PowerSave,
	}
	for i := 0; i < c.Type.Groups(); i++ {
		g := c.Groups[i]
		f.Groups = append(f.Groups, Group{DriveMA: int(g.Drive / physic.MilliAmpere), SlowSlew: g.SlowSlew, Schmitt: g.Schmitt})
	}
	for i := 0; i < c.Type.Channels(); i++ {
		ch := c.Channels[i]
		if f.Channels == nil {
			f.Channels = map[string]Channel{}
		}
		f.Channels[channelNames[i]] = Channel{
			Type:        strings.ToLower(ch.Type.String()),
			Driver:      strings.ToLower(ch.Driver.String()),
			RS485:       ch.RS485,
			HighCurrent: ch.HighCurrent,
		}
	}
	for _, fn := range c.CBus {
		f.CBus = append(f.CBus, fn.Name(c.Type))
	}
	if c.Type == ftdi.FT232H {
		f.FT1284 = &FT1284{
			ClockIdleHigh: c.FT1284.ClockIdleHigh,
			DataLSB:       c.FT1284.DataLSB,
			FlowControl:   c.FT1284.FlowControl,
		}
	}
	if c.UserData != nil {
		f.UserData = &UserData{Offset: c.UserData.Offset, Hex: hex.EncodeToString(c.UserData.Data)}
	}
	return f
}

//

var channelNames = [...]string{"a", "b", "c", "d"}

func channelIndex(name string) (int, error) {
	n := strings.ToLower(name)
	for i, c := range channelNames {
		if c == n {
			return i, nil
		}
	}
	return 0, errors.Errorf("ftdiconf: unknown channel %q, want a to d", name)
}

var channelTypes = map[string]ftdi.ChannelType{
	"":       ftdi.UART,
	"uart":   ftdi.UART,
	"fifo":   ftdi.FIFO,
	"opto":   ftdi.OPTO,
	"cpu":    ftdi.CPU,
	"ft1284": ftdi.FT1284Mode,
}

var drivers = map[string]ftdi.Driver{
	"":     ftdi.D2XX,
	"d2xx": ftdi.D2XX,
	"vcp":  ftdi.VCP,
}

func (c *Channel) channel() (ftdi.Channel, error) {
	t, ok := channelTypes[strings.ToLower(c.Type)]
	if !ok {
		return ftdi.Channel{}, errors.Errorf("ftdiconf: unknown channel type %q", c.Type)
	}
	d, ok := drivers[strings.ToLower(c.Driver)]
	if !ok {
		return ftdi.Channel{}, errors.Errorf("ftdiconf: unknown driver %q", c.Driver)
	}
	return ftdi.Channel{Type: t, Driver: d, RS485: c.RS485, HighCurrent: c.HighCurrent}, nil
}

func (f *File) maxPowerMA() int {
	if f.MaxPowerMA == nil {
		return DefaultMaxPowerMA
	}
	return *f.MaxPowerMA
}

func (u *UserData) bytes() ([]byte, error) {
	b, err := hex.DecodeString(strings.Join(strings.Fields(u.Hex), ""))
	if err != nil {
		return nil, errors.Wrap(err, "ftdiconf: user_data")
	}
	return b, nil
}
