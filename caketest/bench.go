// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package caketest provides a test bench driving the ports of a single
// peripheral, and utility functions for testing peripherals.
//
package caketest

import (
	"strings"
	"sync"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/parts"
	"github.com/codergreen/cake/port"
	"github.com/codergreen/cake/ram"
	"github.com/pkg/errors"
)

// Bench is a circuit made of one peripheral whose input ports are driven by
// the bench. Input values are held until changed.
//
type Bench struct {
	C  *cake.Circuit
	P  *cake.Peripheral
	ID cake.InstanceID

	layout port.Layout
	mu     sync.Mutex
	in     map[string]logic.Bits
}

func wireName(p string) string { return "w_" + p }

// NewBench builds a bench around p. spc is the number of steps per clock
// cycle. If clocked is true, the clk port of the peripheral is connected to
// the circuit clock instead of being driven by the bench.
//
func NewBench(p *cake.Peripheral, spc uint, clocked bool) (*Bench, error) {
	b := &Bench{P: p, layout: p.Ports(), in: make(map[string]logic.Bits)}
	var ps []cake.Part
	var conns []string
	for _, pt := range b.layout {
		if clocked && pt.Name == ram.PinClock && pt.Width == 1 {
			conns = append(conns, pt.Name+"="+cake.Clk)
			continue
		}
		conns = append(conns, pt.Name+"="+wireName(pt.Name))
		if pt.Dir == port.Output {
			continue
		}
		name := pt.Name
		ps = append(ps, parts.InputBits(pt.Width, func() logic.Bits {
			b.mu.Lock()
			defer b.mu.Unlock()
			return b.in[name]
		})("out="+wireName(name)))
	}
	ps = append(ps, p.NewPart(strings.Join(conns, ", ")))
	c, err := cake.NewCircuit(1, spc, ps...)
	if err != nil {
		return nil, errors.Wrap(err, "bench")
	}
	b.C = c
	b.ID = c.Instances()[0].ID
	return b, nil
}

// Layout returns the port layout of the peripheral.
//
func (b *Bench) Layout() port.Layout { return b.layout }

// Set drives an input port with v from the next step on. A nil v releases the
// port.
//
func (b *Bench) Set(name string, v logic.Bits) error {
	p, ok := b.layout.Find(name)
	if !ok {
		return errors.Errorf("no port %q", name)
	}
	if p.Dir == port.Output {
		return errors.Errorf("port %q is an output", name)
	}
	if v != nil && len(v) != p.Width {
		return errors.Errorf("port %q is %d bits wide, got %d bits", name, p.Width, len(v))
	}
	b.mu.Lock()
	b.in[name] = v
	b.mu.Unlock()
	return nil
}

// SetInt drives an input port with the binary value of n.
//
func (b *Bench) SetInt(name string, n int64) error {
	p, ok := b.layout.Find(name)
	if !ok {
		return errors.Errorf("no port %q", name)
	}
	return b.Set(name, logic.FromInt(p.Width, n))
}

// Get returns the state of the wire connected to a port.
//
func (b *Bench) Get(name string) (logic.Bits, error) {
	p, ok := b.layout.Find(name)
	if !ok {
		return nil, errors.Errorf("no port %q", name)
	}
	pins := port.Port{Name: wireName(name), Width: p.Width}.Pins()
	v := make(logic.Bits, len(pins))
	for i, pn := range pins {
		n, ok := b.C.Wire(pn)
		if !ok {
			return nil, errors.Errorf("port %q is not wired to the bench", name)
		}
		v[i] = b.C.Get(n)
	}
	return v, nil
}

// Step runs n simulation steps.
//
func (b *Bench) Step(n int) {
	for ; n > 0; n-- {
		b.C.Step()
	}
}

// Dispose releases the bench circuit.
//
func (b *Bench) Dispose() { b.C.Dispose() }
