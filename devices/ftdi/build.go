// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// WordReader reads a 16 bits word of the EEPROM of the connected device.
type WordReader interface {
	// ReadWord reads the word at addr. addr is in words, not bytes.
	ReadWord(addr uint16) (uint16, error)
}

// Device is the connected device, as needed by Build.
type Device interface {
	WordReader
	// ChipID returns the identifier of the EEPROM chip, e.g. 0x46 for a 93C46.
	ChipID() (byte, error)
}

// Image is an EEPROM image produced by Build.
type Image struct {
	Type   Type
	ChipID byte
	// Data is the raw image, including the checksum trailer.
	Data []byte
	// UserAreaSize is the number of bytes left by the strings. It is only
	// informative.
	UserAreaSize int
	// StringsStart is the offset of the string table in Data.
	StringsStart int
	// StringsLen is the length of the string table, including the PnP
	// trailer. The table wraps at the end of Data.
	StringsLen int
	// Warnings lists the values that were clamped or defaulted.
	Warnings []Warning

	userStart, userEnd int
}

// factoryStart and factoryEnd delimit the FT230X factory configuration
// window. It is never overwritten.
const (
	factoryStart = 0x80
	factoryEnd   = 0xa0
)

// Build serializes c into a new EEPROM image.
//
// d may be nil if c.ChipID is set and c.Type is not FT230X. Otherwise it is
// used to query the EEPROM chip identifier and, for FT230X, to read the
// factory configuration words covered by the checksum.
//
// c is not modified.
func Build(c *Config, d Device) (*Image, error) {
	return build(nil, c, d)
}

// BuildInto is like Build but writes into buf, which must be at least the
// EEPROM size. Usually buf is the current content of the EEPROM.
//
// For FT230X, bytes [0x80, 0xA0) of buf are left untouched.
func BuildInto(buf []byte, c *Config, d Device) (*Image, error) {
	if buf == nil {
		return nil, errors.New("ftdi: nil buffer")
	}
	return build(buf, c, d)
}

func build(buf []byte, c *Config, d Device) (*Image, error) {
	if c == nil {
		return nil, ErrNoConfig
	}
	v := lookup(c.Type)
	if v == nil {
		return nil, errors.Wrapf(ErrUnknownChip, "chip type %s", c.Type)
	}
	id, err := resolveChipID(c, d)
	if err != nil {
		return nil, err
	}
	size, err := imageSize(c, id)
	if err != nil {
		return nil, err
	}

	// All the fatal checks are done before touching buf.
	l := len(c.Manufacturer) + len(c.Product) + len(c.Serial)
	userArea := v.stringBudget - 2*l
	if userArea < 0 {
		return nil, errors.Wrapf(ErrSizeExceeded, "%s strings use %d bytes, %d available", c.Type, 2*l, v.stringBudget)
	}
	if u := c.UserData; u != nil {
		if u.Offset < 0 || u.Offset+len(u.Data) > size {
			return nil, errors.Wrapf(ErrSizeExceeded, "user data [0x%x, 0x%x) outside of the %d bytes image", u.Offset, u.Offset+len(u.Data), size)
		}
	}
	if buf == nil {
		buf = make([]byte, size)
	} else {
		if len(buf) < size {
			return nil, errors.Errorf("ftdi: buffer is %d bytes, need %d", len(buf), size)
		}
		buf = buf[:size]
	}
	zero(buf, c.Type)

	var w warnings
	s := &buildState{c: c, chipID: id, w: &w}
	start, n := writeStrings(buf, v, s)
	checkStrings(v, start, n, size, &w)
	v.layout.apply(buf, s)
	if c.UserData != nil {
		writeUserData(buf, c.Type, v, c.UserData, start, n, &w)
	}
	sum, cw := Checksum(c.Type, buf, d)
	w = append(w, cw...)
	binary.LittleEndian.PutUint16(buf[size-2:], sum)
	img := &Image{
		Type:         c.Type,
		ChipID:       id,
		Data:         buf,
		UserAreaSize: userArea,
		StringsStart: start,
		StringsLen:   n,
		Warnings:     w,
	}
	if u := c.UserData; u != nil {
		img.userStart, img.userEnd = u.Offset, u.Offset+len(u.Data)
	}
	return img, nil
}

//

func resolveChipID(c *Config, d Device) (byte, error) {
	if c.ChipID != 0 {
		return c.ChipID, nil
	}
	if d == nil {
		return 0, errors.Wrap(ErrUnknownChip, "no chip id and no device")
	}
	id, err := d.ChipID()
	if err != nil {
		return 0, errors.Wrapf(ErrUnknownChip, "reading chip id: %v", err)
	}
	if id == 0 {
		return 0, errors.Wrap(ErrUnknownChip, "device reported no chip id")
	}
	return id, nil
}

func imageSize(c *Config, id byte) (int, error) {
	switch c.Size {
	case 0:
		return EEPROMSize(id), nil
	case 0x80, 0x100:
		return c.Size, nil
	default:
		return 0, errors.Wrapf(ErrUnknownChip, "unsupported eeprom size %d", c.Size)
	}
}

// zero zeros buf, except the FT230X factory window.
func zero(buf []byte, t Type) {
	for i := range buf {
		if t == FT230X && i >= factoryStart && i < factoryEnd {
			continue
		}
		buf[i] = 0
	}
}

// writeStrings writes the string table and returns its offset in buf and its
// length.
func writeStrings(buf []byte, v *variant, s *buildState) (int, int) {
	w := newWrappingCursor(buf, v.stringStart)
	start := w.index()
	for i, str := range [...]string{s.c.Manufacturer, s.c.Product, s.c.Serial} {
		off := w.offset()
		if i != 0 {
			off |= 0x80
		}
		s.strs[i] = stringSlot{offset: off, length: w.writeString(str)}
		if !isASCII(str) {
			s.w.add(stringFields[i], "%q is not ASCII", str)
		}
	}
	if s.c.Type > FT232BM {
		// Legacy PnP trailer.
		w.write(0x02, 0x03, boolByte(s.c.NotPnP))
	}
	return start, w.pos - v.stringStart
}

var stringFields = [...]string{"Manufacturer", "Product", "Serial"}

// checkStrings warns when the string table, once wrapped to the image size,
// runs into the header or the checksum trailer.
func checkStrings(v *variant, start, n, size int, w *warnings) {
	mask := size - 1
	for j := 0; j < n; j++ {
		if p := (start + j) & mask; p < v.freeStart || p >= size-2 {
			w.add("Strings", "%d bytes string table at 0x%02x overlaps the header or the checksum at 0x%02x", n, start, p)
			return
		}
	}
}

// writeUserData copies u into buf. For FT230X, the bytes falling in the
// factory configuration window are not copied.
func writeUserData(buf []byte, t Type, v *variant, u *UserData, start, n int, w *warnings) {
	end := u.Offset + len(u.Data)
	if u.Offset < v.freeStart {
		w.add("UserData", "offset 0x%x overlaps the header ending at 0x%x", u.Offset, v.freeStart)
	}
	if end >= v.stringStart || overlapsWrapped(u.Offset, end, start, n, len(buf)) {
		w.add("UserData", "[0x%x, 0x%x) overlaps the strings starting at 0x%x", u.Offset, end, start)
	}
	skipped := false
	for i, b := range u.Data {
		p := u.Offset + i
		if t == FT230X && p >= factoryStart && p < factoryEnd {
			skipped = true
			continue
		}
		buf[p] = b
	}
	if skipped {
		w.add("UserData", "bytes in the factory configuration [0x%x, 0x%x) are not written", factoryStart, factoryEnd)
	}
}

// overlapsWrapped returns true if [from, to) intersects the n bytes starting
// at start, wrapped to size.
func overlapsWrapped(from, to, start, n, size int) bool {
	for j := 0; j < n; j++ {
		if p := (start + j) & (size - 1); p >= from && p < to {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
