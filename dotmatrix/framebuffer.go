// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package dotmatrix

import (
	"sync/atomic"

	"github.com/codergreen/cake/logic"
)

// CellBits is the number of color bits of a dot.
//
const CellBits = 8

// Cell is the color of a single dot, bit 0 first.
//
type Cell [CellBits]logic.Value

// frame is a committed snapshot of the grid.
//
type frame struct {
	rows, cols int
	cells      []Cell
}

func (f *frame) at(row, col int) Cell {
	if row < 0 || row >= f.rows || col < 0 || col >= f.cols {
		return Cell{}
	}
	return f.cells[row*f.cols+col]
}

// Framebuffer holds the working grid of a matrix and the committed display
// copy.
//
// Writes go to the grid. UpdateDisplay and PartialUpdateDisplay commit the
// grid to the display which is what Paint reads. The display is swapped
// atomically so that it can be read from another goroutine while the
// simulation runs.
//
type Framebuffer struct {
	rows, cols int
	grid       []Cell
	deadline   [][CellBits]int64
	dirty      []bool
	display    atomic.Pointer[frame]
	latched    bool
}

// NewFramebuffer returns a rows x cols framebuffer with every cell Unknown.
//
func NewFramebuffer(rows, cols int, tick uint64) *Framebuffer {
	fb := new(Framebuffer)
	fb.rows = -1
	fb.Resize(rows, cols, tick)
	return fb
}

// Rows returns the number of rows.
//
func (fb *Framebuffer) Rows() int { return fb.rows }

// Cols returns the number of columns.
//
func (fb *Framebuffer) Cols() int { return fb.cols }

// Latched reports whether a refresh strobe has been acted upon and not yet
// released.
//
func (fb *Framebuffer) Latched() bool { return fb.latched }

// Grid returns the working value of a cell.
//
func (fb *Framebuffer) Grid(row, col int) Cell {
	if row < 0 || row >= fb.rows || col < 0 || col >= fb.cols {
		return Cell{}
	}
	return fb.grid[row*fb.cols+col]
}

// Display returns the committed value of a cell.
//
func (fb *Framebuffer) Display(row, col int) Cell {
	return fb.display.Load().at(row, col)
}

// Deadline returns the tick until which bit b of a cell keeps glowing.
//
func (fb *Framebuffer) Deadline(row, col, b int) int64 {
	return fb.deadline[row*fb.cols+col][b]
}

// Dirty reports whether row was written since the last commit.
//
func (fb *Framebuffer) Dirty(row int) bool { return fb.dirty[row] }

// Resize reallocates the grid if the dimensions changed. All content is
// discarded and every deadline set to tick.
//
func (fb *Framebuffer) Resize(rows, cols int, tick uint64) bool {
	if rows == fb.rows && cols == fb.cols {
		return false
	}
	fb.rows, fb.cols = rows, cols
	n := rows * cols
	fb.grid = make([]Cell, n)
	fb.deadline = make([][CellBits]int64, n)
	// persistence starts expired
	for i := range fb.deadline {
		for b := range fb.deadline[i] {
			fb.deadline[i][b] = int64(tick) - 1
		}
	}
	fb.dirty = make([]bool, rows)
	fb.UpdateDisplay()
	return true
}

// UpdateDisplay commits the whole grid then resets it to Unknown.
//
func (fb *Framebuffer) UpdateDisplay() {
	fb.display.Store(&frame{fb.rows, fb.cols, fb.grid})
	fb.grid = make([]Cell, fb.rows*fb.cols)
	for i := range fb.dirty {
		fb.dirty[i] = false
	}
}

// PartialUpdateDisplay commits the rows written since the last commit. The
// whole grid is reset to Unknown.
//
func (fb *Framebuffer) PartialUpdateDisplay() {
	old := fb.display.Load()
	cells := make([]Cell, len(fb.grid))
	if old.rows == fb.rows && old.cols == fb.cols {
		copy(cells, old.cells)
	}
	for r, d := range fb.dirty {
		if !d {
			continue
		}
		i := r * fb.cols
		copy(cells[i:i+fb.cols], fb.grid[i:i+fb.cols])
		fb.dirty[r] = false
	}
	fb.display.Store(&frame{fb.rows, fb.cols, cells})
	for i := range fb.grid {
		fb.grid[i] = Cell{}
	}
}

// set stores v in bit b of cell i and maintains its glow deadline.
//
func (fb *Framebuffer) set(i, b int, v logic.Value, persist int64) {
	old := fb.grid[i][b]
	switch {
	case v == logic.True:
		fb.deadline[i][b] = persist
	case old == logic.True:
		fb.deadline[i][b] = persist - 1
	}
	fb.grid[i][b] = v
}

// WriteRow writes one color value per column to row and marks it dirty.
// Values narrower than a cell leave the upper bits Unknown.
//
func (fb *Framebuffer) WriteRow(row int, cols []logic.Bits, persist int64) {
	base := row * fb.cols
	for c := fb.cols - 1; c >= 0; c-- {
		var v logic.Bits
		if c < len(cols) {
			v = cols[c]
		}
		for b := 0; b < CellBits; b++ {
			fb.set(base+c, b, v.Get(b), persist)
		}
	}
	fb.dirty[row] = true
}

// WriteColumn writes a single value per row to every bit of column col.
// vals[0] is the bottom row.
//
func (fb *Framebuffer) WriteColumn(col int, vals logic.Bits, persist int64) {
	for i, v := range vals {
		row := fb.rows - 1 - i
		if row < 0 {
			break
		}
		for b := 0; b < CellBits; b++ {
			fb.set(row*fb.cols+col, b, v, persist)
		}
		fb.dirty[row] = true
	}
}

// WriteSelect writes cols to every row whose select bit is True.
// rowSel[0] selects the bottom row and cols[0] is the leftmost column.
// Unselected rows are cleared to False, or to Error when their select bit is
// not defined.
//
func (fb *Framebuffer) WriteSelect(rowSel, cols logic.Bits, persist int64) {
	for r := 0; r < fb.rows; r++ {
		sel := rowSel.Get(fb.rows - 1 - r)
		for c := 0; c < fb.cols; c++ {
			var v logic.Value
			switch sel {
			case logic.True:
				v = cols.Get(c)
			case logic.False:
				v = logic.False
			default:
				v = logic.Error
			}
			for b := 0; b < CellBits; b++ {
				fb.set(r*fb.cols+c, b, v, persist)
			}
		}
		fb.dirty[r] = true
	}
}

// Lit returns the working value of a cell with persistence applied: a False
// bit whose deadline has not passed reads as True.
//
func (fb *Framebuffer) Lit(row, col int, tick uint64) Cell {
	if row < 0 || row >= fb.rows || col < 0 || col >= fb.cols {
		return Cell{}
	}
	i := row*fb.cols + col
	c := fb.grid[i]
	for b, v := range c {
		if v == logic.False && fb.deadline[i][b]-int64(tick) >= 0 {
			c[b] = logic.True
		}
	}
	return c
}
