// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"strconv"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/logic"
)

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) cake.Part {
	return DFFN(1)(w)
}

// DFFN returns a bus of data flip flops.
//
func DFFN(bits int) cake.NewPartFn {
	return (&cake.PartSpec{
		Name:    "DFF" + strconv.Itoa(bits),
		Inputs:  bus(bits, pIn),
		Outputs: bus(bits, pOut),
		Mount: func(s *cake.Socket) []cake.Component {
			in, out := s.Bus(pIn, bits), s.Bus(pOut, bits)
			d := s.Driver()
			cur := logic.Unknowns(bits)
			return []cake.Component{
				func(c *cake.Circuit) {
					// rising edge?
					if c.AtTick() {
						cur = in.Get(c)
					}
					out.Drive(c, d, cur, 1)
				}}
		}}).NewPart
}

// Tristate returns a tristate buffer of the given bits size. Its output
// follows in while en is True and floats otherwise.
//
//	Inputs: in, en
//	Outputs: out
//
func Tristate(bits int) cake.NewPartFn {
	return (&cake.PartSpec{
		Name:    "TRISTATE" + strconv.Itoa(bits),
		Inputs:  append(bus(bits, pIn), pEn),
		Outputs: bus(bits, pOut),
		Mount: func(s *cake.Socket) []cake.Component {
			in, en, out := s.Bus(pIn, bits), s.Pin(pEn), s.Bus(pOut, bits)
			d := s.Driver()
			return []cake.Component{
				func(c *cake.Circuit) {
					if c.Get(en) == logic.True {
						out.Drive(c, d, in.Get(c), 1)
					} else {
						out.Drive(c, d, nil, 1)
					}
				}}
		}}).NewPart
}
