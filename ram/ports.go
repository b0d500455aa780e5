// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package ram

import "github.com/codergreen/cake/port"

// Port names.
//
const (
	PinAddr     = "addr"  // address
	PinData     = "data"  // data bus (out, or in/out in Combined and Asynchronous modes)
	PinCS       = "cs"    // chip select
	PinOE       = "oe"    // output enable
	PinClear    = "clr"   // clear contents
	PinClock    = "clk"   // clock, absent in Asynchronous mode
	PinWE       = "we"    // write enable
	PinDataIn   = "din"   // data in
	PinRead     = "rd"    // output request, ReadWriteSeparated only
	PinReadSel  = "rdsel" // track the read address instead of addr
	PinReadAddr = "raddr" // read address
)

// Ports returns the port layout for cfg. It only depends on the bus mode and
// the address and data widths.
//
func Ports(cfg *Config) port.Layout {
	data := port.Bidi(PinData, cfg.DataBits)
	if cfg.Bus == Separate || cfg.Bus == ReadWriteSeparated {
		data.Dir = port.Output
	}
	l := port.Layout{
		port.In(PinAddr, cfg.AddrBits),
		data,
		port.In(PinCS, 1),
		port.In(PinOE, 1),
		port.In(PinClear, 1),
	}
	if cfg.Bus != Asynchronous {
		l = append(l, port.In(PinClock, 1))
	}
	switch cfg.Bus {
	case Separate:
		l = append(l, port.In(PinWE, 1), port.In(PinDataIn, cfg.DataBits))
	case ReadWriteSeparated:
		l = append(l,
			port.In(PinWE, 1),
			port.In(PinDataIn, cfg.DataBits),
			port.In(PinRead, 1),
			port.In(PinReadSel, 1),
			port.In(PinReadAddr, cfg.AddrBits))
	}
	return l
}
