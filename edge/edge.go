// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package edge provides clock edge detection for clocked parts.
//
package edge

import "github.com/codergreen/cake/logic"

// A Trigger selects which clock transitions or levels fire a Detector.
//
type Trigger int

// Supported triggers.
//
const (
	Rising Trigger = iota
	Falling
	High
	Low
)

// Detector remembers the last clock value seen by a part.
// The zero value has seen a low clock.
//
type Detector struct {
	last logic.Value
	seen bool
}

// Last returns the last clock value passed to Update.
//
func (d *Detector) Last() logic.Value {
	if !d.seen {
		return logic.False
	}
	return d.last
}

// Update records clk and returns true if it fires trigger t.
// Edges require a clean transition: a clock coming out of Unknown or Error
// never produces an edge.
//
func (d *Detector) Update(clk logic.Value, t Trigger) bool {
	old := d.Last()
	d.last, d.seen = clk, true
	switch t {
	case Falling:
		return old == logic.True && clk == logic.False
	case High:
		return clk == logic.True
	case Low:
		return clk == logic.False
	}
	return old == logic.False && clk == logic.True
}
