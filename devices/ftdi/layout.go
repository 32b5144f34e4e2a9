// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"strconv"

	"periph.io/x/periph/conn/physic"
)

// buildState is what the layout fields read from while an image is built.
type buildState struct {
	c      *Config
	chipID byte
	// strs is the position and length byte of the manufacturer, product and
	// serial strings.
	strs [3]stringSlot
	w    *warnings
}

type stringSlot struct {
	offset byte
	length byte
}

// field is one bit field of the EEPROM header.
//
// The encoded value is masked with mask, then shifted left by shift, then
// OR'ed into the byte at off.
type field struct {
	name  string
	off   int
	shift uint
	mask  byte
	get   func(s *buildState) byte
	// set is nil for fields that can't be decoded back.
	set func(c *Config, v byte)
}

// layout is the description of every header byte of a chip variant.
type layout []field

// byteBuilder assembles header bytes from fields before writing them.
type byteBuilder struct {
	val     [MaxEEPROMSize]byte
	touched [MaxEEPROMSize]bool
}

func (b *byteBuilder) or(off int, v byte) {
	b.val[off] |= v
	b.touched[off] = true
}

// writeTo writes each assembled byte once in buf.
func (b *byteBuilder) writeTo(buf []byte) {
	mask := len(buf) - 1
	for i := range b.val {
		if b.touched[i] {
			buf[i&mask] = b.val[i]
		}
	}
}

// apply assembles all the fields and writes them in buf.
func (l layout) apply(buf []byte, s *buildState) {
	var b byteBuilder
	for i := range l {
		f := &l[i]
		b.or(f.off, (f.get(s)&f.mask)<<f.shift)
	}
	b.writeTo(buf)
}

// decode sets c from the header bytes in buf.
func (l layout) decode(buf []byte, c *Config) {
	mask := len(buf) - 1
	for i := range l {
		f := &l[i]
		if f.set != nil {
			f.set(c, (buf[f.off&mask]>>f.shift)&f.mask)
		}
	}
}

//

func constant(name string, off int, shift uint, mask, v byte) field {
	return field{name: name, off: off, shift: shift, mask: mask, get: func(*buildState) byte { return v }}
}

func u8(name string, off int, p func(c *Config) *byte) field {
	return field{
		name: name, off: off, mask: 0xff,
		get: func(s *buildState) byte { return *p(s.c) },
		set: func(c *Config, v byte) { *p(c) = v },
	}
}

// u16 returns the two fields of a little endian 16 bits value.
func u16(name string, off int, p func(c *Config) *uint16) []field {
	return []field{
		{
			name: name, off: off, mask: 0xff,
			get: func(s *buildState) byte { return byte(*p(s.c)) },
			set: func(c *Config, v byte) { *p(c) = *p(c)&0xff00 | uint16(v) },
		},
		{
			name: name, off: off + 1, mask: 0xff,
			get: func(s *buildState) byte { return byte(*p(s.c) >> 8) },
			set: func(c *Config, v byte) { *p(c) = *p(c)&0x00ff | uint16(v)<<8 },
		},
	}
}

func flag(name string, off int, bit uint, p func(c *Config) *bool) field {
	return field{
		name: name, off: off, shift: bit, mask: 1,
		get: func(s *buildState) byte {
			if *p(s.c) {
				return 1
			}
			return 0
		},
		set: func(c *Config, v byte) { *p(c) = v != 0 },
	}
}

func channelName(ch int) string {
	return "Channel" + string(rune('A'+ch))
}

func channelType(t Type, off, ch int, mask byte) field {
	return field{
		name: channelName(ch) + ".Type", off: off, mask: mask,
		get: func(s *buildState) byte { return EncodeChannelType(s.c.Channels[ch].Type, t) },
		set: func(c *Config, v byte) { c.Channels[ch].Type = DecodeChannelType(v) },
	}
}

func channelDriver(off int, bit uint, ch int) field {
	return field{
		name: channelName(ch) + ".Driver", off: off, shift: bit, mask: 1,
		get: func(s *buildState) byte {
			if s.c.Channels[ch].Driver == VCP {
				return 1
			}
			return 0
		},
		set: func(c *Config, v byte) {
			c.Channels[ch].Driver = D2XX
			if v != 0 {
				c.Channels[ch].Driver = VCP
			}
		},
	}
}

func channelFlag(name string, off int, bit uint, ch int, p func(ch *Channel) *bool) field {
	return flag(channelName(ch)+"."+name, off, bit, func(c *Config) *bool { return p(&c.Channels[ch]) })
}

// Group byte bits.
const (
	driveMask byte = 0x03
	slowSlew  byte = 0x04
	schmitt   byte = 0x08
)

// driveStep is the drive strength increment.
const driveStep = 4 * physic.MilliAmpere

func group(off int, shift uint, g int) field {
	name := "Group" + strconv.Itoa(g)
	return field{
		name: name, off: off, shift: shift, mask: 0x0f,
		get: func(s *buildState) byte { return encodeGroup(&s.c.Groups[g], name, s.w) },
		set: func(c *Config, v byte) { c.Groups[g] = decodeGroup(v) },
	}
}

func encodeGroup(g *Group, name string, w *warnings) byte {
	v := driveCode(g.Drive, name, w)
	if g.SlowSlew {
		v |= slowSlew
	}
	if g.Schmitt {
		v |= schmitt
	}
	return v
}

// driveCode returns the 2 bits encoding of a drive strength. Values above
// 16mA are clamped to 16mA.
func driveCode(d physic.ElectricCurrent, name string, w *warnings) byte {
	switch {
	case d == 0 || d == driveStep:
		return 0
	case d < driveStep:
		w.add(name, "drive strength %s below %s, using %s", d, driveStep, driveStep)
		return 0
	case d > 4*driveStep:
		w.add(name, "drive strength %s above %s, using %s", d, 4*driveStep, 4*driveStep)
		return driveMask
	}
	if d%driveStep != 0 {
		w.add(name, "drive strength %s is not a multiple of %s, using %s", d, driveStep, d/driveStep*driveStep)
	}
	return byte(d/driveStep - 1)
}

func decodeGroup(v byte) Group {
	return Group{
		Drive:    physic.ElectricCurrent(v&driveMask+1) * driveStep,
		SlowSlew: v&slowSlew != 0,
		Schmitt:  v&schmitt != 0,
	}
}

func cbus(p *cbusPins, off int, shift uint, mask byte, pin int) field {
	return field{
		name: "CBus" + strconv.Itoa(pin), off: off, shift: shift, mask: mask,
		get: func(s *buildState) byte { return byte(p.clamp(s.c, pin, s.w)) },
		set: func(c *Config, v byte) { c.setCBus(pin, CBusFunction(v)) },
	}
}

func chipID(off int) field {
	return field{
		name: "ChipID", off: off, mask: 0xff,
		get: func(s *buildState) byte { return s.chipID },
		set: func(c *Config, v byte) { c.ChipID = v },
	}
}

// maxPowerUnit is the unit of the max power byte.
const maxPowerUnit = 2 * physic.MilliAmpere

func maxPower(off int) field {
	return field{
		name: "MaxPower", off: off, mask: 0xff,
		get: func(s *buildState) byte {
			p := s.c.MaxPower
			switch {
			case p < 0:
				s.w.add("MaxPower", "negative value %s, using 0", p)
				return 0
			case p > 0xff*maxPowerUnit:
				s.w.add("MaxPower", "%s above %s, clamping", p, 0xff*maxPowerUnit)
				return 0xff
			}
			return byte(p / maxPowerUnit)
		},
		set: func(c *Config, v byte) { c.MaxPower = physic.ElectricCurrent(v) * maxPowerUnit },
	}
}

// stringSlots returns the header fields pointing to the three strings.
func stringSlots() []field {
	var out []field
	for i, n := range [...]string{"Manufacturer", "Product", "Serial"} {
		i := i
		out = append(out,
			field{name: n, off: 0x0e + 2*i, mask: 0xff, get: func(s *buildState) byte { return s.strs[i].offset }},
			field{name: n, off: 0x0f + 2*i, mask: 0xff, get: func(s *buildState) byte { return s.strs[i].length }},
		)
	}
	return out
}

//

// newLayout returns the header description of chip t.
//
// Bit assignments match what FTDI's own tools write.
func newLayout(t Type) layout {
	var l layout
	l = append(l, u16("VendorID", 0x02, func(c *Config) *uint16 { return &c.VendorID })...)
	l = append(l, u16("ProductID", 0x04, func(c *Config) *uint16 { return &c.ProductID })...)
	l = append(l, u16("Release", 0x06, func(c *Config) *uint16 { return &c.Release })...)
	// Config descriptor attributes; bit 7 is always set.
	l = append(l,
		constant("Attributes", 0x08, 7, 1, 1),
		flag("SelfPowered", 0x08, 6, func(c *Config) *bool { return &c.SelfPowered }),
		flag("RemoteWakeup", 0x08, 5, func(c *Config) *bool { return &c.RemoteWakeup }),
		maxPower(0x09),
	)
	l = append(l, stringSlots()...)

	// Chip configuration byte.
	if t != FT232AM && t != FT230X {
		l = append(l,
			flag("InIsochronous", 0x0a, 0, func(c *Config) *bool { return &c.InIsochronous }),
			flag("OutIsochronous", 0x0a, 1, func(c *Config) *bool { return &c.OutIsochronous }),
		)
	}
	if t != FT232AM {
		l = append(l, flag("UseSerial", 0x0a, 3, func(c *Config) *bool { return &c.UseSerial }))
	}
	switch t {
	case FT2232C, FT232R, FT2232H, FT4232H, FT232H:
		l = append(l, flag("SuspendPullDowns", 0x0a, 2, func(c *Config) *bool { return &c.SuspendPullDowns }))
	}
	switch t {
	case FT232BM, FT2232C:
		l = append(l, flag("UseUSBVersion", 0x0a, 4, func(c *Config) *bool { return &c.UseUSBVersion }))
	}
	switch t {
	case FT232BM, FT2232C, FT232R:
		l = append(l, u16("USBVersion", 0x0c, func(c *Config) *uint16 { return &c.USBVersion })...)
	}

	highCurrent := func(ch *Channel) *bool { return &ch.HighCurrent }
	switch t {
	case FT2232C:
		for ch := 0; ch < 2; ch++ {
			l = append(l,
				channelType(t, ch, ch, 0x07),
				channelDriver(ch, 3, ch),
				channelFlag("HighCurrent", ch, 4, ch, highCurrent),
			)
		}
		l = append(l, chipID(0x14))

	case FT232R:
		l = append(l,
			channelType(t, 0x00, 0, 0x01),
			flag("ExternalOscillator", 0x00, 1, func(c *Config) *bool { return &c.ExternalOscillator }),
			channelFlag("HighCurrent", 0x00, 2, 0, highCurrent),
			// Endpoint size.
			constant("EndpointSize", 0x01, 0, 0xff, 0x40),
			u8("Invert", 0x0b, func(c *Config) *byte { return &c.Invert }),
		)
		for i := 0; i < 5; i++ {
			l = append(l, cbus(&cbusR, 0x14+i/2, 4*uint(i%2), 0x0f, i))
		}

	case FT2232H:
		for ch := 0; ch < 2; ch++ {
			l = append(l, channelType(t, ch, ch, 0x07), channelDriver(ch, 3, ch))
		}
		l = append(l, flag("SuspendDBus7", 0x01, 7, func(c *Config) *bool { return &c.SuspendDBus7 }))
		l = append(l, quadGroups()...)
		l = append(l, chipID(0x18))

	case FT4232H:
		// Channels A and B in the low nibble, C and D in the high nibble.
		for ch := 0; ch < 4; ch++ {
			l = append(l,
				channelDriver(ch%2, 3+4*uint(ch/2), ch),
				channelFlag("RS485", 0x0b, 4+uint(ch), ch, func(ch *Channel) *bool { return &ch.RS485 }),
			)
		}
		l = append(l, quadGroups()...)
		l = append(l, chipID(0x18))

	case FT232H:
		l = append(l,
			channelType(t, 0x00, 0, 0x0f),
			channelDriver(0x00, 4, 0),
			flag("FT1284.ClockIdleHigh", 0x01, 0, func(c *Config) *bool { return &c.FT1284.ClockIdleHigh }),
			flag("FT1284.DataLSB", 0x01, 1, func(c *Config) *bool { return &c.FT1284.DataLSB }),
			flag("FT1284.FlowControl", 0x01, 2, func(c *Config) *bool { return &c.FT1284.FlowControl }),
			flag("PowerSave", 0x01, 7, func(c *Config) *bool { return &c.PowerSave }),
			group(0x0c, 0, 0),
			group(0x0d, 0, 1),
		)
		for i := 0; i < 10; i++ {
			l = append(l, cbus(&cbusH, 0x18+i/2, 4*uint(i%2), 0x0f, i))
		}
		l = append(l, chipID(0x1e))

	case FT230X:
		l = append(l,
			constant("Reserved", 0x00, 0, 0xff, 0x80),
			u8("Invert", 0x0b, func(c *Config) *byte { return &c.Invert }),
			// DBUS and CBUS drive 4mA like the factory default.
			constant("Drive", 0x0c, 0, 0xff, 0),
		)
		for i := 0; i < 7; i++ {
			l = append(l, cbus(&cbusX, 0x1a+i, 0, 0xff, i))
		}
	}
	return l
}

// quadGroups returns the FT2232H and FT4232H group fields: two groups per
// byte, even group in the low nibble.
func quadGroups() []field {
	return []field{
		group(0x0c, 0, 0),
		group(0x0c, 4, 1),
		group(0x0d, 0, 2),
		group(0x0d, 4, 3),
	}
}

var (
	layoutAM    = newLayout(FT232AM)
	layoutBM    = newLayout(FT232BM)
	layout2232C = newLayout(FT2232C)
	layoutR     = newLayout(FT232R)
	layout2232H = newLayout(FT2232H)
	layout4232H = newLayout(FT4232H)
	layout232H  = newLayout(FT232H)
	layout230X  = newLayout(FT230X)
)
