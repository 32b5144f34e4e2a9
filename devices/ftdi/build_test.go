// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"periph.io/x/periph/conn/physic"
)

func TestBuild_FT2232H(t *testing.T) {
	c := Config{
		Type:         FT2232H,
		ChipID:       Chip93x46,
		VendorID:     0x0403,
		ProductID:    0x6010,
		Manufacturer: "FTDI",
		Product:      "Dual RS232",
	}
	c.Groups[2] = Group{Drive: 4 * physic.MilliAmpere, SlowSlew: true}
	c.Groups[3] = Group{Drive: 4 * physic.MilliAmpere, SlowSlew: true}
	c.Channels[1] = Channel{Type: UART, Driver: VCP}
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", img.Warnings)
	}
	b := img.Data
	if len(b) != 128 {
		t.Fatalf("len = %d", len(b))
	}
	want := []byte{
		0x00, 0x08, // Channel A, channel B VCP
		0x03, 0x04, 0x10, 0x60, 0x00, 0x00, // VID, PID, release
		0x80, 0x00, 0x00, 0x00, // Attributes, power, config, invert
		0x00, 0x44, // Groups
		0x9a, 0x0a, 0xa4, 0x16, 0xba, 0x02, // String slots
	}
	if diff := cmp.Diff(want, b[:len(want)]); diff != "" {
		t.Fatalf("header (-want +got):\n%s", diff)
	}
	if b[0x18] != Chip93x46 {
		t.Fatalf("chip id = %#x", b[0x18])
	}
	// The string table wrapped from 0x9a to 0x1a.
	if img.StringsStart != 0x1a {
		t.Fatalf("StringsStart = %#x", img.StringsStart)
	}
	strs := []byte{0x0a, 0x03, 'F', 0, 'T', 0, 'D', 0, 'I', 0}
	if !bytes.Equal(b[0x1a:0x24], strs) {
		t.Fatalf("manufacturer = %x", b[0x1a:0x24])
	}
	// Empty serial and the PnP trailer.
	if !bytes.Equal(b[0x3a:0x3f], []byte{0x02, 0x03, 0x02, 0x03, 0x00}) {
		t.Fatalf("serial = %x", b[0x3a:0x3f])
	}
	if img.UserAreaSize != 214-2*14 {
		t.Fatalf("UserAreaSize = %d", img.UserAreaSize)
	}
	if err := Verify(FT2232H, b, nil); err != nil {
		t.Fatal(err)
	}
}

func TestBuild_FT230X_UserData(t *testing.T) {
	ud := []byte("0123456789abcdef")
	c := Config{
		Type:         FT230X,
		ChipID:       Chip93x56,
		VendorID:     0x0403,
		ProductID:    0x6015,
		Manufacturer: "FTDI",
		Product:      "FT230X Basic UART",
		Serial:       "DN00XYZ",
		UserData:     &UserData{Offset: 0x60, Data: ud},
	}
	d := newFakeDevice(Chip93x56)
	buf := bytes.Repeat([]byte{0xff}, 256)
	img, err := BuildInto(buf, &c, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", img.Warnings)
	}
	b := img.Data
	if len(b) != 256 {
		t.Fatalf("len = %d", len(b))
	}
	if !bytes.Equal(b[0x60:0x70], ud) {
		t.Fatalf("user data = %x", b[0x60:0x70])
	}
	// The factory window is untouched.
	if !bytes.Equal(b[factoryStart:factoryEnd], bytes.Repeat([]byte{0xff}, factoryEnd-factoryStart)) {
		t.Fatalf("factory window = %x", b[factoryStart:factoryEnd])
	}
	var want []uint16
	for i := uint16(0x40); i < 0x50; i++ {
		want = append(want, i)
	}
	if diff := cmp.Diff(want, d.reads); diff != "" {
		t.Fatalf("reads (-want +got):\n%s", diff)
	}
	if got, exp := binary.LittleEndian.Uint16(b[254:]), refChecksum230X(b, d.words); got != exp {
		t.Fatalf("checksum = %#04x, want %#04x", got, exp)
	}
}

func TestBuild_FT230X_ExcludedWords(t *testing.T) {
	c := Config{Type: FT230X, ChipID: Chip93x56, Manufacturer: "A"}
	img1, err := Build(&c, newFakeDevice(0))
	if err != nil {
		t.Fatal(err)
	}
	// Words [0x12, 0x40) are not covered.
	c.UserData = &UserData{Offset: 0x30, Data: []byte{1, 2, 3, 4}}
	img2, err := Build(&c, newFakeDevice(0))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img1.Data[254:], img2.Data[254:]) {
		t.Fatalf("checksum changed: %x vs %x", img1.Data[254:], img2.Data[254:])
	}
	// Words [0x40, 0x50) come from the device.
	d := newFakeDevice(0)
	d.words[0x45] = 0x1234
	img3, err := Build(&c, d)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(img2.Data[254:], img3.Data[254:]) {
		t.Fatal("checksum didn't use the device")
	}
}

func TestBuild_Sizes(t *testing.T) {
	data := []struct {
		t    Type
		id   byte
		size int
		want int
	}{
		{FT232AM, Chip93x46, 0, 128},
		{FT232BM, Chip93x56, 0, 256},
		{FT2232C, Chip93x66, 0, 256},
		{FT232R, Chip93x46, 0, 128},
		{FT2232H, Chip93x56, 0, 256},
		{FT4232H, Chip93x46, 256, 256},
		{FT232H, Chip93x66, 128, 128},
		{FT230X, Chip93x56, 0, 256},
	}
	for i, line := range data {
		c := Config{Type: line.t, ChipID: line.id, Size: line.size, Manufacturer: "Acme", Product: "Widget", Serial: "A1"}
		img, err := Build(&c, newFakeDevice(0))
		if err != nil {
			t.Fatalf("#%d: %v", i, err)
		}
		if len(img.Data) != line.want {
			t.Fatalf("#%d: %s len = %d, want %d", i, line.t, len(img.Data), line.want)
		}
		if err := Verify(line.t, img.Data, newFakeDevice(0)); err != nil {
			t.Fatalf("#%d: %v", i, err)
		}
	}
}

func TestBuild_ChipIDFromDevice(t *testing.T) {
	c := Config{Type: FT232H}
	img, err := Build(&c, newFakeDevice(Chip93x56))
	if err != nil {
		t.Fatal(err)
	}
	if img.ChipID != Chip93x56 || len(img.Data) != 256 || img.Data[0x1e] != Chip93x56 {
		t.Fatalf("chip id %#x, len %d", img.ChipID, len(img.Data))
	}
	if c.ChipID != 0 {
		t.Fatal("config was modified")
	}
}

func TestBuild_Errors(t *testing.T) {
	long := Config{Type: FT232H, ChipID: Chip93x46, Manufacturer: "0123456789", Product: "0123456789012345678901234567890", Serial: ""}
	data := []struct {
		name string
		c    *Config
		d    Device
		want error
	}{
		{"nil", nil, nil, ErrNoConfig},
		{"unknown", &Config{ChipID: Chip93x46}, nil, ErrUnknownChip},
		{"invalid type", &Config{Type: Type(42), ChipID: Chip93x46}, nil, ErrUnknownChip},
		{"no device", &Config{Type: FT232R}, nil, ErrUnknownChip},
		{"device error", &Config{Type: FT232R}, &fakeDevice{err: errors.New("unplugged")}, ErrUnknownChip},
		{"size", &Config{Type: FT232R, ChipID: Chip93x46, Size: 512}, nil, ErrUnknownChip},
		{"strings", &long, nil, ErrSizeExceeded},
		{"user data", &Config{Type: FT232R, ChipID: Chip93x46, UserData: &UserData{Offset: 0x7c, Data: make([]byte, 5)}}, nil, ErrSizeExceeded},
		{"user data negative", &Config{Type: FT232R, ChipID: Chip93x46, UserData: &UserData{Offset: -1, Data: make([]byte, 5)}}, nil, ErrSizeExceeded},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			buf := bytes.Repeat([]byte{0x55}, 256)
			img, err := BuildInto(buf, line.c, line.d)
			if img != nil || !errors.Is(err, line.want) {
				t.Fatalf("BuildInto() = %v, %v; want %v", img, err, line.want)
			}
			if !bytes.Equal(buf, bytes.Repeat([]byte{0x55}, 256)) {
				t.Fatal("buffer was modified")
			}
		})
	}
}

func TestBuild_StringBudget(t *testing.T) {
	// FT232H has 80 bytes for 40 characters.
	c := Config{Type: FT232H, ChipID: Chip93x46, Manufacturer: "0123456789", Product: "0123456789012345678901234567890"}
	if _, err := Build(&c, nil); !errors.Is(err, ErrSizeExceeded) {
		t.Fatalf("41 chars: %v", err)
	}
	c.Product = c.Product[:30]
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatalf("40 chars: %v", err)
	}
	if img.UserAreaSize != 0 {
		t.Fatalf("UserAreaSize = %d", img.UserAreaSize)
	}
}

func TestBuild_StringRoundTrip(t *testing.T) {
	for _, typ := range []Type{FT232AM, FT232BM, FT2232C, FT232R, FT2232H, FT4232H, FT232H, FT230X} {
		for _, id := range []byte{Chip93x46, Chip93x56} {
			if typ == FT230X && id == Chip93x46 {
				// The CBus configuration overlaps the wrapped string table.
				continue
			}
			c := Config{Type: typ, ChipID: id, Manufacturer: "Acme", Product: "Widget 3000", Serial: "A1B2C3", NotPnP: true}
			img, err := Build(&c, newFakeDevice(0))
			if err != nil {
				t.Fatalf("%s: %v", typ, err)
			}
			got, err := Decode(typ, img.Data)
			if err != nil {
				t.Fatalf("%s: %v", typ, err)
			}
			if got.Manufacturer != c.Manufacturer || got.Product != c.Product || got.Serial != c.Serial {
				t.Fatalf("%s/%#x: got %q %q %q", typ, id, got.Manufacturer, got.Product, got.Serial)
			}
			if got.NotPnP != (typ > FT232BM) {
				t.Fatalf("%s: NotPnP = %t", typ, got.NotPnP)
			}
		}
	}
}

func TestBuild_NonASCII(t *testing.T) {
	c := Config{Type: FT232R, ChipID: Chip93x46, Product: "Grüße"}
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 1 || img.Warnings[0].Field != "Product" {
		t.Fatalf("warnings: %v", img.Warnings)
	}
}

func TestBuild_Clamp(t *testing.T) {
	c := Config{Type: FT232H, ChipID: Chip93x46, MaxPower: 600 * physic.MilliAmpere}
	c.Groups[0] = Group{Drive: 20 * physic.MilliAmpere, Schmitt: true}
	c.Groups[1] = Group{Drive: 10 * physic.MilliAmpere}
	c.CBus = []CBusFunction{FT232HTxLED, 0x0f}
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Data
	if b[0x09] != 0xff {
		t.Fatalf("max power = %#x", b[0x09])
	}
	// 16mA and schmitt.
	if b[0x0c] != 0x0b {
		t.Fatalf("group 0 = %#x", b[0x0c])
	}
	// Rounded down to 8mA.
	if b[0x0d] != 0x01 {
		t.Fatalf("group 1 = %#x", b[0x0d])
	}
	// TXLED, then the default TRISTATE.
	if b[0x18] != 0x01 {
		t.Fatalf("cbus 0/1 = %#x", b[0x18])
	}
	var fields []string
	for _, w := range img.Warnings {
		fields = append(fields, w.Field)
	}
	if diff := cmp.Diff([]string{"MaxPower", "Group0", "Group1", "CBus1"}, fields); diff != "" {
		t.Fatalf("warnings (-want +got):\n%s", diff)
	}
}

func TestBuild_FT232R_CBus(t *testing.T) {
	c := Config{Type: FT232R, ChipID: Chip93x46}
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	// TXLED, RXLED, TXDEN, PWREN, SLEEP.
	if !bytes.Equal(img.Data[0x14:0x17], []byte{0x23, 0x10, 0x05}) {
		t.Fatalf("defaults = %x", img.Data[0x14:0x17])
	}
	c.CBus = []CBusFunction{FT232RClk48, FT232RIOMode, FT232RBitBangRD, FT232RSleep, FT232RBitBangWR}
	img, err = Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	// CBUS4 can't be a bit bang strobe.
	if !bytes.Equal(img.Data[0x14:0x17], []byte{0xa6, 0x5c, 0x05}) {
		t.Fatalf("cbus = %x", img.Data[0x14:0x17])
	}
	if len(img.Warnings) != 1 || img.Warnings[0].Field != "CBus4" {
		t.Fatalf("warnings: %v", img.Warnings)
	}
	if img.Data[0x01] != 0x40 {
		t.Fatalf("endpoint size = %#x", img.Data[0x01])
	}
}

func TestBuild_FT4232H(t *testing.T) {
	c := Config{Type: FT4232H, ChipID: Chip93x56, SuspendPullDowns: true, UseSerial: true}
	c.Channels[0] = Channel{Driver: VCP, RS485: true}
	c.Channels[2] = Channel{Driver: VCP}
	c.Channels[3] = Channel{Driver: VCP, RS485: true}
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Data
	if b[0x00] != 0x88 || b[0x01] != 0x80 {
		t.Fatalf("drivers = %#x %#x", b[0x00], b[0x01])
	}
	if b[0x0a] != 0x0c {
		t.Fatalf("config = %#x", b[0x0a])
	}
	if b[0x0b] != 0x90 {
		t.Fatalf("rs485 = %#x", b[0x0b])
	}
}

func TestBuild_UserDataWarnings(t *testing.T) {
	// Over the header and the wrapped string table at 0x18.
	c := Config{Type: FT232R, ChipID: Chip93x46, UserData: &UserData{Offset: 0x10, Data: make([]byte, 0x70)}}
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 2 || img.Warnings[0].Field != "UserData" || img.Warnings[1].Field != "UserData" {
		t.Fatalf("warnings: %v", img.Warnings)
	}
	c.UserData = &UserData{Offset: 0x90, Data: make([]byte, 0x10)}
	c.ChipID = Chip93x56
	if img, err = Build(&c, nil); err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 1 || img.Warnings[0].Field != "UserData" {
		t.Fatalf("warnings: %v", img.Warnings)
	}
}

func TestBuild_UserDataOverWrappedStrings(t *testing.T) {
	// The 128 bytes string table starts at 0x98&0x7f = 0x18.
	c := Config{Type: FT232R, ChipID: Chip93x46, Manufacturer: "Acme", UserData: &UserData{Offset: 0x20, Data: []byte{1, 2, 3, 4}}}
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 1 || img.Warnings[0].Field != "UserData" {
		t.Fatalf("warnings: %v", img.Warnings)
	}
	// Past the string table, no warning.
	c.UserData.Offset = 0x60
	if img, err = Build(&c, nil); err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 0 {
		t.Fatalf("warnings: %v", img.Warnings)
	}
}

func TestBuild_FT230X_UserDataFactoryWindow(t *testing.T) {
	c := Config{Type: FT230X, ChipID: Chip93x56, UserData: &UserData{Offset: 0x78, Data: bytes.Repeat([]byte{0x5a}, 16)}}
	buf := make([]byte, 256)
	for i := factoryStart; i < factoryEnd; i++ {
		buf[i] = 0xee
	}
	img, err := BuildInto(buf, &c, newFakeDevice(Chip93x56))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img.Data[0x78:0x80], bytes.Repeat([]byte{0x5a}, 8)) {
		t.Fatalf("user data = %x", img.Data[0x78:0x80])
	}
	if !bytes.Equal(img.Data[factoryStart:factoryEnd], bytes.Repeat([]byte{0xee}, factoryEnd-factoryStart)) {
		t.Fatalf("factory window = %x", img.Data[factoryStart:factoryEnd])
	}
	if len(img.Warnings) != 1 || img.Warnings[0].Field != "UserData" {
		t.Fatalf("warnings: %v", img.Warnings)
	}
}

func TestBuild_StringsOverflow(t *testing.T) {
	// 200 bytes fit the FT2232H budget but not the 0x9a-0xfd range.
	c := Config{
		Type:         FT2232H,
		ChipID:       Chip93x56,
		Manufacturer: strings.Repeat("M", 40),
		Product:      strings.Repeat("P", 40),
		Serial:       strings.Repeat("S", 20),
	}
	img, err := Build(&c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 1 || img.Warnings[0].Field != "Strings" {
		t.Fatalf("warnings: %v", img.Warnings)
	}
	// A shorter table ends at 0xfa.
	c.Product = "PPPP"
	c.Serial = ""
	if img, err = Build(&c, nil); err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 0 {
		t.Fatalf("warnings: %v", img.Warnings)
	}
	// The 128 bytes FT230X table lands on the CBus bytes.
	img, err = Build(&Config{Type: FT230X, ChipID: Chip93x46}, newFakeDevice(Chip93x46))
	if err != nil {
		t.Fatal(err)
	}
	if len(img.Warnings) != 1 || img.Warnings[0].Field != "Strings" {
		t.Fatalf("warnings: %v", img.Warnings)
	}
}

func TestBuild_DoesNotModifyConfig(t *testing.T) {
	c := Config{Type: FT232R, ChipID: Chip93x46, CBus: []CBusFunction{0xff}, Product: "X"}
	orig := c
	orig.CBus = []CBusFunction{0xff}
	if _, err := Build(&c, nil); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(orig, c); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

//

type fakeDevice struct {
	id    byte
	err   error
	words map[uint16]uint16
	reads []uint16
}

func newFakeDevice(id byte) *fakeDevice {
	d := &fakeDevice{id: id, words: map[uint16]uint16{}}
	for i := uint16(0x40); i < 0x50; i++ {
		d.words[i] = 0x100*i + i
	}
	return d
}

func (f *fakeDevice) ReadWord(addr uint16) (uint16, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.reads = append(f.reads, addr)
	return f.words[addr], nil
}

func (f *fakeDevice) ChipID() (byte, error) {
	return f.id, f.err
}

// refChecksum230X is a straightforward implementation of the FT230X
// checksum over a 256 bytes image.
func refChecksum230X(b []byte, factory map[uint16]uint16) uint16 {
	sum := uint16(0xaaaa)
	add := func(v uint16) {
		sum ^= v
		sum = sum<<1 | sum>>15
	}
	for i := 0; i < 0x12; i++ {
		add(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
	}
	for i := 0x40; i < 0x50; i++ {
		add(factory[uint16(i)])
	}
	for i := 0x50; i < 0x7f; i++ {
		add(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
	}
	return sum
}
