// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package parts provides the basic parts used to drive peripherals in a
// circuit: inputs, outputs, glue logic, a data flip flop and a tristate
// buffer.
//
package parts

import (
	"strconv"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/logic"
)

const (
	pIn  = "in"
	pOut = "out"
	pEn  = "en"
)

func bus(bits int, name string) []string {
	return cake.IO(name + "[" + strconv.Itoa(bits) + "]")
}

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() logic.Value) cake.NewPartFn {
	p := &cake.PartSpec{
		Name:    "Input",
		Outputs: []string{pOut},
		Mount: func(s *cake.Socket) []cake.Component {
			pin := s.Pin(pOut)
			return []cake.Component{
				func(c *cake.Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(logic.Value)) cake.NewPartFn {
	p := &cake.PartSpec{
		Name:   "Output",
		Inputs: []string{pIn},
		Mount: func(s *cake.Socket) []cake.Component {
			in := s.Pin(pIn)
			return []cake.Component{
				func(c *cake.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size driven with the binary
// value of f().
//
func InputN(bits int, f func() int64) cake.NewPartFn {
	return (&cake.PartSpec{
		Name:    "INPUT" + strconv.Itoa(bits),
		Outputs: bus(bits, pOut),
		Mount: func(s *cake.Socket) []cake.Component {
			pins := s.Bus(pOut, bits)
			return []cake.Component{func(c *cake.Circuit) {
				pins.SetInt(c, f())
			}}
		}}).NewPart
}

// InputBits creates an input bus of the given bits size driven with f().
// Bits missing from the returned value are driven Unknown.
//
func InputBits(bits int, f func() logic.Bits) cake.NewPartFn {
	return (&cake.PartSpec{
		Name:    "INPUTBITS" + strconv.Itoa(bits),
		Outputs: bus(bits, pOut),
		Mount: func(s *cake.Socket) []cake.Component {
			pins := s.Bus(pOut, bits)
			d := s.Driver()
			return []cake.Component{func(c *cake.Circuit) {
				pins.Drive(c, d, f(), 1)
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
//
func OutputN(bits int, f func(logic.Bits)) cake.NewPartFn {
	return (&cake.PartSpec{
		Name:   "OUTPUTBUS" + strconv.Itoa(bits),
		Inputs: bus(bits, pIn),
		Mount: func(s *cake.Socket) []cake.Component {
			pins := s.Bus(pIn, bits)
			return []cake.Component{func(c *cake.Circuit) {
				f(pins.Get(c))
			}}
		}}).NewPart
}
