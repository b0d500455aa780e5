// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package port

import "github.com/codergreen/cake/logic"

// Written records a value set through a Map.
//
type Written struct {
	Value logic.Bits
	Delay int
}

// Map is an in-memory Values implementation, useful to drive a peripheral
// without a circuit.
//
// Inputs are read from In. Values set by the peripheral are recorded in Out
// and are not fed back to In.
//
type Map struct {
	In  map[string]logic.Bits
	Out map[string]Written
}

// NewMap returns an empty Map.
//
func NewMap() *Map {
	return &Map{
		In:  make(map[string]logic.Bits),
		Out: make(map[string]Written),
	}
}

// Get implements Values.
//
func (m *Map) Get(name string) logic.Bits { return m.In[name] }

// Set implements Values.
//
func (m *Map) Set(name string, v logic.Bits, delay int) {
	if delay < 1 {
		delay = 1
	}
	m.Out[name] = Written{v, delay}
}

// SetBit sets a single bit input.
//
func (m *Map) SetBit(name string, v logic.Value) *Map {
	m.In[name] = logic.Bits{v}
	return m
}

// SetInt sets a bus input to the width low bits of n.
//
func (m *Map) SetInt(name string, width int, n int64) *Map {
	m.In[name] = logic.FromInt(width, n)
	return m
}

// Output returns the last value set on the named port and whether one was
// set since the last call to Reset.
//
func (m *Map) Output(name string) (logic.Bits, bool) {
	w, ok := m.Out[name]
	return w.Value, ok
}

// Reset forgets recorded outputs.
//
func (m *Map) Reset() {
	for k := range m.Out {
		delete(m.Out, k)
	}
}
