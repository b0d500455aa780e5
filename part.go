// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cake

import (
	"strconv"

	"github.com/codergreen/cake/internal/hdl"
	"github.com/codergreen/cake/port"
	"github.com/pkg/errors"
)

// A PartSpec wraps a part specification (its blueprint).
//
// Custom parts are implemented by creating a PartSpec:
//
//	notSpec := &cake.PartSpec{
//		Name:    "Not",
//		Inputs:  cake.IO("in"),
//		Outputs: cake.IO("out"),
//		Mount:   mountNot,
//	}
//
// Then get a NewPartFn for that PartSpec:
//
//	var notGate = notSpec.NewPart
//
// which can then be placed in a circuit:
//
//	c, err := cake.NewCircuit(0, 2, notGate("in=a, out=b"))
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	// Use the IO() function to expand an input description like
	// "a, b, bus[2]" to []string{"a", "b", "bus[0]", "bus[1]"}
	Inputs []string
	// Output pin names. A pin listed in both Inputs and Outputs is
	// bidirectional.
	Outputs []string

	// Mount function (see MountFn).
	Mount MountFn
}

func (p *PartSpec) hasPin(name string) bool {
	return p.isInput(name) || p.isOutput(name)
}

func (p *PartSpec) isInput(name string) bool {
	for _, n := range p.Inputs {
		if n == name {
			return true
		}
	}
	return false
}

func (p *PartSpec) isOutput(name string) bool {
	for _, n := range p.Outputs {
		if n == name {
			return true
		}
	}
	return false
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// See Connect for the syntax of the connection string. Connection errors are
// reported by NewCircuit.
//
func (p *PartSpec) NewPart(connections string) Part {
	cs, err := p.Connect(connections)
	return Part{p, cs, err}
}

// Connect parses a connection string and expands it against the pins of p.
//
// A connection string is a comma separated list of pin=wire assignments. Both
// sides accept a pin name, a bus name, a bus bit name[i] or a bus range
// name[lo..hi]. A bus name on the wire side is expanded to the width of the
// pin side. The wire names true, false and clk are constants; connecting an
// output to false discards it.
//
//	addr=a, data[0..3]=d[4..7], cs=true, clk=clk
//
func (p *PartSpec) Connect(connections string) ([]Connection, error) {
	as, err := hdl.ParseConnections(connections)
	if err != nil {
		return nil, err
	}
	var out []Connection
	seen := make(map[string]bool)
	for _, a := range as {
		pins, err := p.pins(a.Pin)
		if err != nil {
			return nil, err
		}
		ws, err := wires(a.Wire, len(pins))
		if err != nil {
			return nil, err
		}
		if len(ws) != len(pins) {
			return nil, errors.Errorf("pin count mismatch in %s=%s", refString(a.Pin), refString(a.Wire))
		}
		for i, pn := range pins {
			if seen[pn] {
				return nil, errors.Errorf("pin %s connected twice", pn)
			}
			seen[pn] = true
			out = append(out, Connection{pn, ws[i]})
		}
	}
	return out, nil
}

// pins expands a part side reference to pin names.
//
func (p *PartSpec) pins(r hdl.Ref) ([]string, error) {
	if r.Kind == hdl.Whole {
		if p.hasPin(r.Name) {
			return []string{r.Name}, nil
		}
		var out []string
		for i := 0; p.hasPin(port.PinName(r.Name, i)); i++ {
			out = append(out, port.PinName(r.Name, i))
		}
		if out == nil {
			return nil, errors.Errorf("invalid pin name %s for part %s", r.Name, p.Name)
		}
		return out, nil
	}
	var out []string
	for _, i := range r.Indices() {
		n := port.PinName(r.Name, i)
		if !p.hasPin(n) {
			if i != 0 || !p.hasPin(r.Name) {
				return nil, errors.Errorf("invalid pin name %s for part %s", n, p.Name)
			}
			n = r.Name
		}
		out = append(out, n)
	}
	return out, nil
}

// wires expands a wire reference to n wire names.
//
func wires(r hdl.Ref, n int) ([]string, error) {
	var out []string
	if r.Kind == hdl.Whole {
		switch {
		case r.Name == False || r.Name == True || r.Name == Clk || n == 1:
			out = make([]string, n)
			for i := range out {
				out[i] = r.Name
			}
		default:
			for i := 0; i < n; i++ {
				out = append(out, port.PinName(r.Name, i))
			}
		}
		return out, nil
	}
	switch r.Name {
	case False, True, Clk:
		return nil, errors.Errorf("constant %s cannot be indexed", r.Name)
	}
	for _, i := range r.Indices() {
		out = append(out, port.PinName(r.Name, i))
	}
	if len(out) == 1 && n > 1 {
		// one to many
		for len(out) < n {
			out = append(out, out[0])
		}
	}
	return out, nil
}

func refString(r hdl.Ref) string {
	switch r.Kind {
	case hdl.Index:
		return port.PinName(r.Name, r.Lo)
	case hdl.Span:
		return r.Name + "[" + strconv.Itoa(r.Lo) + ".." + strconv.Itoa(r.Hi) + "]"
	}
	return r.Name
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See PartSpec.Connect for the syntax of the connection configuration
// string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a
// circuit.
//
type Part struct {
	*PartSpec
	Conns []Connection
	err   error
}

// Err returns the error encountered when connecting the part.
//
func (p Part) Err() error { return p.err }

// Connection connects a part pin to a circuit wire.
//
type Connection struct {
	Pin  string
	Wire string
}

// IO expands a comma separated list of pin names and bus declarations into
// individual pin names:
//
//	IO("a, b, bus[2]") // returns []string{"a", "b", "bus[0]", "bus[1]"}
//
// A bus of width 1 keeps its plain name. IO panics if the declaration is
// malformed; it is meant to be used when defining parts.
//
func IO(decl string) []string {
	rs, err := hdl.ParseDecls(decl)
	if err != nil {
		panic(err)
	}
	var out []string
	for _, r := range rs {
		w := 1
		if r.Kind == hdl.Index {
			w = r.Lo
		}
		out = append(out, port.Port{Name: r.Name, Width: w}.Pins()...)
	}
	return out
}

// LayoutIO splits the pins of a port layout into inputs and outputs.
// Bidirectional pins appear in both.
//
func LayoutIO(l port.Layout) (inputs, outputs []string) {
	for _, p := range l {
		if p.Dir != port.Output {
			inputs = append(inputs, p.Pins()...)
		}
		if p.Dir != port.Input {
			outputs = append(outputs, p.Pins()...)
		}
	}
	return inputs, outputs
}
