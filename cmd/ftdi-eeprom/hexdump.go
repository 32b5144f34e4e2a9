// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// hexdump formats data 16 bytes per row. Bytes with mark set are shown in
// red.
func hexdump(offset int, data []byte, mark []bool) string {
	var out strings.Builder
	red := color.New(color.FgRed)
	for len(data) > 0 {
		l := len(data)
		if l > 16 {
			l = 16
		}
		work := data[:l]
		data = data[l:]
		var workMark []bool
		if mark != nil {
			workMark = mark[:l]
			mark = mark[l:]
		}

		var hex, ascii strings.Builder
		for i := 0; i < 16; i++ {
			if i >= len(work) {
				hex.WriteString("   ")
				ascii.WriteString(" ")
			} else {
				m := work[i]
				c := byte('.')
				if m >= 32 && m <= 126 {
					c = m
				}
				if workMark != nil && workMark[i] {
					hex.WriteString(red.Sprintf("%02x ", m))
					ascii.WriteString(red.Sprintf("%c", c))
				} else {
					fmt.Fprintf(&hex, "%02x ", m)
					ascii.WriteByte(c)
				}
			}
			if i%8 == 7 {
				hex.WriteString(" ")
			}
		}
		fmt.Fprintf(&out, "%04x  %s|%s|\n", offset, hex.String(), ascii.String())
		offset += l
	}
	return out.String()
}

// diff returns which bytes of b differ from a, and how many.
func diff(a, b []byte) ([]bool, int) {
	mark := make([]bool, len(b))
	n := 0
	for i := range b {
		if i >= len(a) || a[i] != b[i] {
			mark[i] = true
			n++
		}
	}
	return mark, n
}
