// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cake

import (
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/port"
	"github.com/pkg/errors"
)

// Constant input pin names.
//
const (
	False = "false"
	True  = "true"
	Clk   = "clk"
)

const (
	cstFalse = iota
	cstTrue
	cstClk
	cstCount
)

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit, p Part) (*Socket, error) {
	s := &Socket{m: make(map[string]int, len(p.Conns)), c: c}
	for _, cn := range p.Conns {
		if p.isOutput(cn.Pin) {
			switch cn.Wire {
			case True, Clk:
				return nil, errors.Errorf("output pin %s connected to constant %q", cn.Pin, cn.Wire)
			case False:
				// sink
				continue
			}
		}
		s.m[cn.Pin] = c.wire(cn.Wire)
	}
	return s, nil
}

// Circuit returns the circuit the socket belongs to.
//
func (s *Socket) Circuit() *Circuit { return s.c }

// Pin returns the pin number allocated to the given pin name. Pins that are
// not connected get a floating pin of their own: inputs read Unknown and
// outputs go nowhere.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.m[name] = n
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus name.
//
func (s *Socket) Bus(name string, width int) Bus {
	if width == 1 {
		return Bus{s.Pin(name)}
	}
	b := make(Bus, width)
	for i := range b {
		b[i] = s.Pin(port.PinName(name, i))
	}
	return b
}

// Driver allocates a new driver.
//
func (s *Socket) Driver() Driver { return s.c.allocDriver() }

// Bus is a set of pins, least significant bit first.
//
type Bus []int

// Get returns the state of the bus.
//
func (b Bus) Get(c *Circuit) logic.Bits {
	v := make(logic.Bits, len(b))
	for i, n := range b {
		v[i] = c.Get(n)
	}
	return v
}

// Drive schedules driver d to output v on the bus after delay steps. Missing
// bits in v are driven Unknown.
//
func (b Bus) Drive(c *Circuit, d Driver, v logic.Bits, delay int) {
	for i, n := range b {
		c.Drive(d, n, v.Get(i), delay)
	}
}

// SetInt sets the bus to the binary value of n on the next step.
//
func (b Bus) SetInt(c *Circuit, n int64) {
	b.Drive(c, defaultDriver, logic.FromInt(len(b), n), 1)
}

// Int returns the value of the bus and whether all its bits are defined.
//
func (b Bus) Int(c *Circuit) (int64, bool) {
	return b.Get(c).Defined()
}
