// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"strconv"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/logic"
)

// AdderN returns a N-bits ripple carry adder. Undefined input bits make the
// sum undefined from that bit on, unless the carry is settled.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//
func AdderN(bits int) cake.NewPartFn {
	return (&cake.PartSpec{
		Name:    "ADDER" + strconv.Itoa(bits),
		Inputs:  append(bus(bits, pA), bus(bits, pB)...),
		Outputs: append(bus(bits, pOut), "c"),
		Mount: func(s *cake.Socket) []cake.Component {
			a, b := s.Bus(pA, bits), s.Bus(pB, bits)
			out, cout := s.Bus(pOut, bits), s.Pin("c")
			d := s.Driver()
			return []cake.Component{
				func(c *cake.Circuit) {
					va, vb := a.Get(c), b.Get(c)
					sum := make(logic.Bits, bits)
					cc := logic.False
					for i := range sum {
						s0 := logic.Xor(va[i], vb[i])
						sum[i] = logic.Xor(s0, cc)
						cc = logic.Or(logic.And(va[i], vb[i]), logic.And(s0, cc))
					}
					out.Drive(c, d, sum, 1)
					c.Drive(d, cout, cc, 1)
				}}
		}}).NewPart
}

// Counter returns a N-bits counter, typically used to scan the rows of a dot
// matrix. On the rising edge of the clock, the counter is cleared if rst is
// True, or incremented if en is True. It wraps around to 0.
//
//	Inputs: en, rst
//	Outputs: out[bits]
//
func Counter(bits int) cake.NewPartFn {
	return (&cake.PartSpec{
		Name:    "COUNTER" + strconv.Itoa(bits),
		Inputs:  []string{pEn, "rst"},
		Outputs: bus(bits, pOut),
		Mount: func(s *cake.Socket) []cake.Component {
			en, rst, out := s.Pin(pEn), s.Pin("rst"), s.Bus(pOut, bits)
			d := s.Driver()
			mask := int64(1)<<uint(bits) - 1
			var n int64
			return []cake.Component{
				func(c *cake.Circuit) {
					if c.AtTick() {
						switch {
						case c.Get(rst) == logic.True:
							n = 0
						case c.Get(en) == logic.True:
							n = (n + 1) & mask
						}
					}
					out.Drive(c, d, logic.FromInt(bits, n), 1)
				}}
		}}).NewPart
}
