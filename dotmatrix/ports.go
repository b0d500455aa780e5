// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package dotmatrix

import (
	"math/bits"
	"strconv"

	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/port"
)

// Port names. Column ports are named c0, c1, ...
//
const (
	PinRow     = "row"     // row selector
	PinFull    = "full"    // commit the whole grid
	PinPartial = "partial" // commit changed rows
)

// ColumnPin returns the name of the port of column i.
//
func ColumnPin(i int) string { return "c" + strconv.Itoa(i) }

// RowBits returns the width of the row selector.
//
func RowBits(rows int, adj Adjust) int {
	if adj == AdjustNone {
		return 8
	}
	n := bits.Len(uint(rows - 1))
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}

// Ports returns the port layout for cfg: one 8 bit color port per column,
// the row selector and the two refresh strobes.
//
func Ports(cfg *Config) port.Layout {
	l := make(port.Layout, 0, cfg.Cols+3)
	for i := 0; i < cfg.Cols; i++ {
		l = append(l, port.In(ColumnPin(i), CellBits))
	}
	return append(l,
		port.In(PinRow, RowBits(cfg.Rows, cfg.Adjust)),
		port.In(PinFull, 1),
		port.In(PinPartial, 1))
}

// DecodeRow returns the row selected by sel. Only True bits count; rows out
// of range select row 0.
//
func DecodeRow(sel logic.Bits, rows int) int {
	r := 0
	for j, v := range sel {
		if v == logic.True {
			r += 1 << uint(j)
		}
	}
	if r >= rows {
		return 0
	}
	return r
}
