// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"fmt"

	"github.com/pkg/errors"
)

// Fatal build errors. Use errors.Is to tell them apart; the returned errors
// carry more context.
var (
	// ErrUnknownChip is returned when the chip variant or the EEPROM chip
	// identifier is unset or unsupported.
	ErrUnknownChip = errors.New("ftdi: no connected EEPROM or EEPROM type unknown")
	// ErrSizeExceeded is returned when the strings or the user data do not fit
	// in the image.
	ErrSizeExceeded = errors.New("ftdi: eeprom size exceeded")
	// ErrNoConfig is returned when no configuration is provided.
	ErrNoConfig = errors.New("ftdi: no eeprom configuration")
)

func errUnknownType(s string) error {
	return errors.Wrapf(ErrUnknownChip, "unrecognized chip type %q", s)
}

// ChecksumError is returned by Verify when the trailer doesn't match the
// content.
type ChecksumError struct {
	Type     Type
	Expected uint16
	Actual   uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("ftdi: %s checksum mismatch: computed 0x%04x, image has 0x%04x", e.Type, e.Expected, e.Actual)
}

// Warning is a non fatal condition found while building or checksumming an
// image. The value was clamped or defaulted and the build went on.
type Warning struct {
	// Field is the name of the configuration field involved.
	Field string
	Msg   string
}

func (w Warning) String() string {
	if w.Field == "" {
		return w.Msg
	}
	return w.Field + ": " + w.Msg
}

// warnings accumulates Warning values.
type warnings []Warning

func (w *warnings) add(field, format string, args ...interface{}) {
	*w = append(*w, Warning{Field: field, Msg: fmt.Sprintf(format, args...)})
}
