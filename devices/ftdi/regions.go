// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import "strconv"

// Region is the kind of content stored at a byte of an image.
type Region uint8

// Regions of an image.
const (
	Unused Region = iota
	Header
	Strings
	User
	Factory
	Trailer
)

var regionNames = [...]string{"Unused", "Header", "Strings", "User", "Factory", "Checksum"}

func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return "Region(" + strconv.Itoa(int(r)) + ")"
}

// Regions returns the region of each byte of i.Data.
//
// When regions overlap, the last one written by Build wins: the header over
// the strings, the user data over both.
func (i *Image) Regions() []Region {
	r := make([]Region, len(i.Data))
	if len(r) < 2 {
		return r
	}
	mask := len(r) - 1
	for j := 0; j < i.StringsLen; j++ {
		r[(i.StringsStart+j)&mask] = Strings
	}
	if v := lookup(i.Type); v != nil {
		for j := 0; j < v.freeStart && j < len(r); j++ {
			r[j] = Header
		}
	}
	for j := i.userStart; j < i.userEnd && j < len(r); j++ {
		r[j] = User
	}
	if i.Type == FT230X {
		for j := factoryStart; j < factoryEnd && j < len(r); j++ {
			r[j] = Factory
		}
	}
	r[len(r)-2] = Trailer
	r[len(r)-1] = Trailer
	return r
}
