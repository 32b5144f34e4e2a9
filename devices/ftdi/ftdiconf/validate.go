// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdiconf

import (
	"strings"

	"github.com/pkg/errors"
	"periph.io/x/eeprom/devices/ftdi"
)

// Validate checks that every value of f can be represented.
//
// It doesn't modify f. Values that the builder clamps, like drive strength
// or max power, are accepted here; the builder reports them as warnings.
func Validate(f *File) error {
	if f == nil {
		return ftdi.ErrNoConfig
	}
	t, err := ftdi.ParseType(f.Type)
	if err != nil {
		return err
	}
	switch f.ChipID {
	case 0, ftdi.Chip93x46, ftdi.Chip93x56, ftdi.Chip93x66:
	default:
		return errors.Errorf("ftdiconf: unknown chip_id 0x%02x", f.ChipID)
	}
	switch f.Size {
	case 0, 0x80, 0x100:
	default:
		return errors.Errorf("ftdiconf: size must be 128 or 256, got %d", f.Size)
	}
	if f.MaxPowerMA != nil && *f.MaxPowerMA < 0 {
		return errors.Errorf("ftdiconf: negative max_power_ma %d", *f.MaxPowerMA)
	}
	for _, s := range []string{f.Manufacturer, f.Product, f.Serial} {
		for i := 0; i < len(s); i++ {
			if s[i] < 0x20 || s[i] > 0x7e {
				return errors.Errorf("ftdiconf: %q must contain printable ASCII characters only", s)
			}
		}
	}
	if n := t.Groups(); len(f.Groups) > n {
		return errors.Errorf("ftdiconf: %s has %d groups, got %d", t, n, len(f.Groups))
	}
	for i, g := range f.Groups {
		if g.DriveMA < 0 {
			return errors.Errorf("ftdiconf: group %d: negative drive_ma %d", i, g.DriveMA)
		}
	}
	for name, ch := range f.Channels {
		i, err := channelIndex(name)
		if err != nil {
			return err
		}
		if i >= t.Channels() {
			return errors.Errorf("ftdiconf: %s has no channel %s", t, strings.ToUpper(name))
		}
		if _, err := ch.channel(); err != nil {
			return errors.Wrapf(err, "channel %s", name)
		}
	}
	if n := t.CBusPins(); len(f.CBus) > n {
		return errors.Errorf("ftdiconf: %s has %d cbus pins, got %d", t, n, len(f.CBus))
	}
	for i, s := range f.CBus {
		if _, err := ftdi.ParseCBus(t, s); err != nil {
			return errors.Wrapf(err, "cbus %d", i)
		}
	}
	if f.FT1284 != nil && t != ftdi.FT232H {
		return errors.Errorf("ftdiconf: ft1284 is only supported on FT232H, not %s", t)
	}
	if u := f.UserData; u != nil {
		if u.Offset < 0 {
			return errors.Errorf("ftdiconf: negative user_data offset %d", u.Offset)
		}
		if _, err := u.bytes(); err != nil {
			return err
		}
	}
	return nil
}
