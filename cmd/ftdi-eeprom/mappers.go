// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
)

// intMapper decodes integer flags in a fixed base. A 0x prefix is accepted
// in base 16.
type intMapper struct {
	base int
}

func (h intMapper) Decode(ctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	if err := ctx.Scan.PopValueInto("hex", &value); err != nil {
		return err
	}
	i, err := parseInt(value, h.base)
	if err != nil {
		return err
	}
	target.SetInt(i)
	return nil
}

func parseInt(s string, base int) (int64, error) {
	if base == 16 {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	}
	return strconv.ParseInt(s, base, 64)
}
