// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dotmatrix implements a row-scanned LED dot matrix with 8 bit color
// dots, double buffering and phosphor persistence.
//
// On every step the selected row is written with the values of the column
// ports. A True level on full commits the whole grid to the display, a True
// level on partial commits only the rows written since the last commit. A
// strobe must return to False or Unknown before it is acted upon again.
//
package dotmatrix

import (
	"fmt"
	"image/color"

	"github.com/codergreen/cake/logger"
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/port"
)

// State is the runtime state of one matrix instance.
//
type State struct {
	*Framebuffer
	Log logger.Permission // nil disables logging
}

// NewState returns the state of a matrix configured by cfg.
//
func NewState(cfg *Config, tick uint64) *State {
	return &State{Framebuffer: NewFramebuffer(cfg.Rows, cfg.Cols, tick)}
}

func idle(v logic.Value) bool { return v == logic.False || v == logic.Unknown }

// Propagate runs one simulation step at the given tick.
//
func Propagate(cfg *Config, st *State, ps port.Values, tick uint64) {
	fb := st.Framebuffer
	full, partial := port.Bit(ps, PinFull), port.Bit(ps, PinPartial)
	if !fb.latched {
		if full == logic.True {
			fb.UpdateDisplay()
			fb.latched = true
			logger.Log(st.Log, "matrix", "full refresh")
		} else if partial == logic.True {
			fb.PartialUpdateDisplay()
			fb.latched = true
			logger.Log(st.Log, "matrix", "partial refresh")
		}
	}
	if idle(full) && idle(partial) {
		fb.latched = false
	}

	if fb.Resize(cfg.Rows, cfg.Cols, tick) {
		logger.Log(st.Log, "matrix", fmt.Sprintf("resized to %dx%d", cfg.Cols, cfg.Rows))
	}

	row := DecodeRow(ps.Get(PinRow), cfg.Rows)
	cols := make([]logic.Bits, cfg.Cols)
	for c := range cols {
		cols[c] = ps.Get(ColumnPin(c))
	}
	fb.WriteRow(row, cols, int64(tick)+int64(cfg.Persist))
}

// Frame is a rendered matrix. Pixels are in row major order.
//
type Frame struct {
	Rows, Cols int
	Pixels     []color.RGBA
	Shape      Shape
	OffColor   color.RGBA
}

// At returns the color of a dot.
//
func (f *Frame) At(row, col int) color.RGBA { return f.Pixels[row*f.Cols+col] }

// channel weights of the 8 color bits: 3 bits of red and green, 2 of blue.
var weights = [CellBits]struct{ r, g, b uint8 }{
	{r: 32}, {r: 64}, {r: 128},
	{g: 32}, {g: 64}, {g: 128},
	{b: 80}, {b: 144},
}

// Color returns the color of a dot. Only True bits contribute.
//
func Color(c Cell) color.RGBA {
	var col color.RGBA
	for i, v := range c {
		if v == logic.True {
			col.R += weights[i].r
			col.G += weights[i].g
			col.B += weights[i].b
		}
	}
	col.A = 255
	return col
}

// Paint renders the committed display of st. It does not modify st.
//
func Paint(cfg *Config, st *State) *Frame {
	d := st.display.Load()
	f := &Frame{
		Rows:     d.rows,
		Cols:     d.cols,
		Pixels:   make([]color.RGBA, len(d.cells)),
		Shape:    cfg.Shape,
		OffColor: cfg.OffColor,
	}
	for i, c := range d.cells {
		f.Pixels[i] = Color(c)
	}
	return f
}
