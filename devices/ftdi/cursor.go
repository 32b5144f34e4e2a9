// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

// wrappingCursor writes bytes sequentially into an EEPROM image, wrapping
// around at the image size.
//
// 128 bytes EEPROMs (93x46 and the internal ones) alias addresses at 0x80,
// so a string table starting at 0x9a actually lands at 0x1a. The header
// slots record the unwrapped position truncated to a byte, like the vendor
// tool does.
type wrappingCursor struct {
	buf  []byte
	pos  int
	mask int
}

// newWrappingCursor returns a cursor at start over buf. len(buf) must be a
// power of two.
func newWrappingCursor(buf []byte, start int) *wrappingCursor {
	return &wrappingCursor{buf: buf, pos: start, mask: len(buf) - 1}
}

// offset returns the unwrapped position as stored in the header slots.
func (w *wrappingCursor) offset() byte {
	return byte(w.pos)
}

// index returns the wrapped position in buf.
func (w *wrappingCursor) index() int {
	return w.pos & w.mask
}

// write writes b and advances the cursor by len(b).
func (w *wrappingCursor) write(b ...byte) {
	for _, v := range b {
		w.buf[w.pos&w.mask] = v
		w.pos++
	}
}

// writeString writes a USB string descriptor: the length byte, the
// descriptor type 0x03 and each character followed by 0x00.
//
// It returns the length byte.
func (w *wrappingCursor) writeString(s string) byte {
	l := byte(2*len(s) + 2)
	w.write(l, 0x03)
	for i := 0; i < len(s); i++ {
		w.write(s[i], 0x00)
	}
	return l
}
