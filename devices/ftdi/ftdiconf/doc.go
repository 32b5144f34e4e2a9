// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftdiconf reads and writes EEPROM configurations as YAML.
//
// A configuration file looks like:
//
//  type: FT2232H
//  vendor_id: 0x0403
//  product_id: 0x6010
//  max_power_ma: 500
//  manufacturer: Lattice
//  product: Lattice ECP5 Evaluation Board
//  groups:
//    - drive_ma: 4
//    - drive_ma: 4
//    - drive_ma: 4
//      slow_slew: true
//    - drive_ma: 4
//      slow_slew: true
//  channels:
//    b:
//      type: uart
//      driver: vcp
//
// Load it, then Validate, Normalize and convert it with File.Config.
package ftdiconf
