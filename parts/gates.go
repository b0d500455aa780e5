// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"strconv"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/logic"
)

const (
	pA   = "a"
	pB   = "b"
	pSel = "sel"
)

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(w string) cake.Part { return notGate.NewPart(w) }

var notGate = cake.PartSpec{
	Name:    "NOT",
	Inputs:  []string{pIn},
	Outputs: []string{pOut},
	Mount: func(s *cake.Socket) []cake.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		d := s.Driver()
		return []cake.Component{
			func(c *cake.Circuit) { c.Drive(d, out, logic.Not(c.Get(in)), 1) },
		}
	},
}

type gate func(a, b logic.Value) logic.Value

func (g gate) mount(s *cake.Socket) []cake.Component {
	a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
	d := s.Driver()
	return []cake.Component{
		func(c *cake.Circuit) { c.Drive(d, out, g(c.Get(a), c.Get(b)), 1) },
	}
}

func newGate(name string, fn gate) *cake.PartSpec {
	return &cake.PartSpec{
		Name:    name,
		Inputs:  []string{pA, pB},
		Outputs: []string{pOut},
		Mount:   fn.mount,
	}
}

var (
	and  = newGate("AND", logic.And)
	nand = newGate("NAND", func(a, b logic.Value) logic.Value { return logic.Not(logic.And(a, b)) })
	or   = newGate("OR", logic.Or)
	nor  = newGate("NOR", func(a, b logic.Value) logic.Value { return logic.Not(logic.Or(a, b)) })
	xor  = newGate("XOR", logic.Xor)
)

// And returns a AND gate.
//
func And(w string) cake.Part { return and.NewPart(w) }

// Nand returns a NAND gate.
//
func Nand(w string) cake.Part { return nand.NewPart(w) }

// Or returns a OR gate.
//
func Or(w string) cake.Part { return or.NewPart(w) }

// Nor returns a NOR gate.
//
func Nor(w string) cake.Part { return nor.NewPart(w) }

// Xor returns a XOR gate.
//
func Xor(w string) cake.Part { return xor.NewPart(w) }

// MuxN returns a bits wide multiplexer. When sel is undefined, bits where a
// and b agree pass through and the others are Unknown.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: if sel == 0 { out = a } else { out = b }
//
func MuxN(bits int) cake.NewPartFn {
	return (&cake.PartSpec{
		Name:    "MUX" + strconv.Itoa(bits),
		Inputs:  append(append(bus(bits, pA), bus(bits, pB)...), pSel),
		Outputs: bus(bits, pOut),
		Mount: func(s *cake.Socket) []cake.Component {
			a, b, sel := s.Bus(pA, bits), s.Bus(pB, bits), s.Pin(pSel)
			out := s.Bus(pOut, bits)
			d := s.Driver()
			return []cake.Component{func(c *cake.Circuit) {
				switch c.Get(sel) {
				case logic.False:
					out.Drive(c, d, a.Get(c), 1)
				case logic.True:
					out.Drive(c, d, b.Get(c), 1)
				default:
					va, vb := a.Get(c), b.Get(c)
					for i := range va {
						if va[i] != vb[i] {
							va[i] = logic.Unknown
						}
					}
					out.Drive(c, d, va, 1)
				}
			}}
		}}).NewPart
}

// Decoder returns a 1 of 2^bits decoder, typically used to derive chip
// selects from the high bits of an address bus. All outputs are False while
// en is False and Unknown while en or sel is undefined.
//
//	Inputs: sel[bits], en
//	Outputs: out[1<<bits]
//	Function: for i := range out { out[i] = en && sel == i }
//
func Decoder(bits int) cake.NewPartFn {
	n := 1 << uint(bits)
	return (&cake.PartSpec{
		Name:    "DECODER" + strconv.Itoa(bits),
		Inputs:  append(bus(bits, pSel), pEn),
		Outputs: bus(n, pOut),
		Mount: func(s *cake.Socket) []cake.Component {
			sel, en, out := s.Bus(pSel, bits), s.Pin(pEn), s.Bus(pOut, n)
			d := s.Driver()
			return []cake.Component{func(c *cake.Circuit) {
				e := c.Get(en)
				if e == logic.False {
					out.Drive(c, d, logic.Fill(n, logic.False), 1)
					return
				}
				v, ok := sel.Get(c).Defined()
				if e != logic.True || !ok {
					out.Drive(c, d, logic.Unknowns(n), 1)
					return
				}
				r := logic.Fill(n, logic.False)
				r[v] = logic.True
				out.Drive(c, d, r, 1)
			}}
		}}).NewPart
}
