// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

func TestParseType(t *testing.T) {
	data := []struct {
		in   string
		want Type
	}{
		{"FT2232H", FT2232H},
		{"ft2232h", FT2232H},
		{"2232h", FT2232H},
		{" 232R", FT232R},
		{"am", FT232AM},
		{"BM", FT232BM},
		{"230x", FT230X},
		{"4232H", FT4232H},
	}
	for _, line := range data {
		if got, err := ParseType(line.in); got != line.want || err != nil {
			t.Fatalf("ParseType(%q) = %s, %v", line.in, got, err)
		}
	}
	for _, in := range []string{"", "FT", "Unknown", "2232", "ft9000"} {
		if _, err := ParseType(in); !errors.Is(err, ErrUnknownChip) {
			t.Fatalf("ParseType(%q) = %v", in, err)
		}
	}
}

func TestType_String(t *testing.T) {
	if s := FT232H.String(); s != "FT232H" {
		t.Fatal(s)
	}
	if s := Type(-1).String(); s != "Type(-1)" {
		t.Fatal(s)
	}
	if FT232H.Channels() != 1 || FT4232H.Channels() != 4 || Unknown.Channels() != 0 {
		t.Fatal("Channels()")
	}
}

func TestTypeFromBCD(t *testing.T) {
	data := map[uint16]Type{
		0x0200: FT232AM,
		0x0400: FT232BM,
		0x0500: FT2232C,
		0x0600: FT232R,
		0x0700: FT2232H,
		0x0800: FT4232H,
		0x0900: FT232H,
		0x1000: FT230X,
		0x0300: Unknown,
	}
	for bcd, want := range data {
		if got := TypeFromBCD(bcd); got != want {
			t.Fatalf("TypeFromBCD(%#04x) = %s, want %s", bcd, got, want)
		}
	}
}

func TestEEPROMSize(t *testing.T) {
	if EEPROMSize(Chip93x46) != 128 || EEPROMSize(Chip93x56) != 256 || EEPROMSize(Chip93x66) != 256 || EEPROMSize(0) != 128 {
		t.Fatal("EEPROMSize()")
	}
}

func TestEncodeChannelType(t *testing.T) {
	data := []struct {
		f    ChannelType
		t    Type
		want byte
	}{
		{UART, FT2232H, 0},
		{FIFO, FT232R, 1},
		{FIFO, FT2232C, 1},
		{FIFO, FT2232H, 1},
		{FIFO, FT232H, 1},
		{FIFO, FT4232H, 0},
		{FIFO, FT230X, 0},
		{OPTO, FT2232H, 2},
		{OPTO, FT232R, 0},
		{CPU, FT232H, 4},
		{CPU, FT2232C, 4},
		{CPU, FT232BM, 0},
		{FT1284Mode, FT232H, 8},
		{FT1284Mode, FT2232H, 0},
		{ChannelType(99), FT232H, 0},
	}
	for _, line := range data {
		if got := EncodeChannelType(line.f, line.t); got != line.want {
			t.Fatalf("EncodeChannelType(%s, %s) = %d, want %d", line.f, line.t, got, line.want)
		}
		if line.want != 0 {
			if got := DecodeChannelType(line.want); got != line.f {
				t.Fatalf("DecodeChannelType(%d) = %s", line.want, got)
			}
		}
	}
}

func TestParseCBus(t *testing.T) {
	data := []struct {
		t    Type
		in   string
		want CBusFunction
	}{
		{FT232R, "TXLED", FT232RTxLED},
		{FT232R, "sleep", FT232RSleep},
		{FT232R, "bb_rd", FT232RBitBangRD},
		{FT232H, "CLK7_5", FT232HClk7_5},
		{FT230X, "AWAKE", FT230XKeepAwake},
		{FT230X, "0x11", FT230XVBusSense},
		{FT2232H, "3", 3},
	}
	for _, line := range data {
		if got, err := ParseCBus(line.t, line.in); got != line.want || err != nil {
			t.Fatalf("ParseCBus(%s, %q) = %d, %v", line.t, line.in, got, err)
		}
	}
	if _, err := ParseCBus(FT232R, "CLK30"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := ParseCBus(FT2232H, "TXLED"); err == nil {
		t.Fatal("expected error")
	}
	if s := FT232HClk30.Name(FT232H); s != "CLK30" {
		t.Fatal(s)
	}
	if s := CBusFunction(0x20).Name(FT230X); s != "0x20" {
		t.Fatal(s)
	}
	if FT232R.CBusPins() != 5 || FT232H.CBusPins() != 10 || FT230X.CBusPins() != 7 || FT2232H.CBusPins() != 0 {
		t.Fatal("CBusPins()")
	}
}

func TestWrappingCursor(t *testing.T) {
	buf := make([]byte, 128)
	w := newWrappingCursor(buf, 0x9a)
	if w.index() != 0x1a || w.offset() != 0x9a {
		t.Fatalf("index %#x offset %#x", w.index(), w.offset())
	}
	if l := w.writeString("AB"); l != 6 {
		t.Fatalf("length %d", l)
	}
	if !bytes.Equal(buf[0x1a:0x20], []byte{6, 3, 'A', 0, 'B', 0}) {
		t.Fatalf("%x", buf[0x1a:0x20])
	}
	if w.offset() != 0xa0 {
		t.Fatalf("offset %#x", w.offset())
	}

	w = newWrappingCursor(buf, 0x7e)
	w.write(1, 2, 3, 4)
	if buf[0x7e] != 1 || buf[0x7f] != 2 || buf[0] != 3 || buf[1] != 4 {
		t.Fatalf("%x", buf)
	}
	if w.index() != 2 || w.offset() != 0x82 {
		t.Fatalf("index %#x offset %#x", w.index(), w.offset())
	}
}
