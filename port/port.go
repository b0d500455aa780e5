// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package port describes the ports of a peripheral and the values flowing
// through them during a propagation step.
//
package port

import (
	"strconv"

	"github.com/codergreen/cake/logic"
)

// Direction of a port, seen from the peripheral.
//
type Direction int

// Port directions.
//
const (
	Input Direction = iota
	Output
	InOut
)

func (d Direction) String() string {
	switch d {
	case Output:
		return "out"
	case InOut:
		return "inout"
	}
	return "in"
}

// A Port is a named group of pins.
//
type Port struct {
	Name  string
	Width int
	Dir   Direction
}

// In returns an input port.
//
func In(name string, width int) Port { return Port{name, width, Input} }

// Out returns an output port.
//
func Out(name string, width int) Port { return Port{name, width, Output} }

// Bidi returns a bidirectional port.
//
func Bidi(name string, width int) Port { return Port{name, width, InOut} }

// Pins expands p into individual pin names. Single bit ports keep their
// name, buses are expanded to name[0], name[1], ...
//
func (p Port) Pins() []string {
	if p.Width == 1 {
		return []string{p.Name}
	}
	pins := make([]string, p.Width)
	for i := range pins {
		pins[i] = PinName(p.Name, i)
	}
	return pins
}

// PinName returns the name of pin i of bus.
//
func PinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}

// Layout is the ordered port list of a peripheral.
//
type Layout []Port

// Index returns the position of the named port or -1.
//
func (l Layout) Index(name string) int {
	for i := range l {
		if l[i].Name == name {
			return i
		}
	}
	return -1
}

// Find returns the named port.
//
func (l Layout) Find(name string) (Port, bool) {
	if i := l.Index(name); i >= 0 {
		return l[i], true
	}
	return Port{}, false
}

// Has returns true if the layout has a port with the given name.
//
func (l Layout) Has(name string) bool { return l.Index(name) >= 0 }

// Inputs returns the pin names of all ports that can be driven from outside.
//
func (l Layout) Inputs() []string {
	var pins []string
	for _, p := range l {
		if p.Dir != Output {
			pins = append(pins, p.Pins()...)
		}
	}
	return pins
}

// Outputs returns the pin names of all ports the peripheral can drive.
//
func (l Layout) Outputs() []string {
	var pins []string
	for _, p := range l {
		if p.Dir != Input {
			pins = append(pins, p.Pins()...)
		}
	}
	return pins
}

// Values gives a peripheral access to its ports during a step.
//
// Get returns the current value of a port. Ports that do not exist or are not
// connected read as all Unknown (possibly nil).
//
// Set drives a port to v. The value becomes visible delay steps later; a
// delay less than 1 is treated as 1.
//
type Values interface {
	Get(name string) logic.Bits
	Set(name string, v logic.Bits, delay int)
}

// Bit returns bit 0 of the named port.
//
func Bit(vs Values, name string) logic.Value {
	return vs.Get(name).Get(0)
}
