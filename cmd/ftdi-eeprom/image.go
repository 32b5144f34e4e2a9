// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/marcinbor85/gohex"
	"github.com/pkg/errors"
)

// imageFormat returns "bin" or "hex" for a file, using the extension when
// format is "auto".
func imageFormat(path, format string) string {
	if format != "" && format != "auto" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihex":
		return "hex"
	default:
		return "bin"
	}
}

// writeImage writes data as a raw binary or an Intel HEX file.
func writeImage(path, format string, data []byte) error {
	if imageFormat(path, format) == "bin" {
		return ioutil.WriteFile(path, data, 0644)
	}
	mem := gohex.NewMemory()
	if err := mem.AddBinary(0, data); err != nil {
		return errors.Wrap(err, path)
	}
	var buf bytes.Buffer
	if err := mem.DumpIntelHex(&buf, 16); err != nil {
		return errors.Wrap(err, path)
	}
	return ioutil.WriteFile(path, buf.Bytes(), 0644)
}

// readImage reads an image written by writeImage.
//
// Intel HEX gaps are filled with 0xFF, like an erased EEPROM.
func readImage(path, format string) ([]byte, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if imageFormat(path, format) == "bin" {
		return raw, nil
	}
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(raw)); err != nil {
		return nil, errors.Wrap(err, path)
	}
	end := uint32(0)
	for _, s := range mem.GetDataSegments() {
		if e := s.Address + uint32(len(s.Data)); e > end {
			end = e
		}
	}
	return mem.ToBinary(0, end, 0xff), nil
}
