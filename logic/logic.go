// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package logic implements the four-state signal values carried by wires and
// ports.
//
package logic

import "strings"

// A Value is the state of a single wire.
//
type Value uint8

// Wire states. The zero Value is Unknown so that freshly allocated buses
// read as floating.
//
const (
	Unknown Value = iota
	False
	True
	Error
)

// FromBool converts b to True or False.
//
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Defined returns true if v is True or False.
//
func (v Value) Defined() bool { return v == True || v == False }

// Resolve returns the state of a wire driven by both a and b.
// Unknown yields to the other driver, agreeing drivers keep their value and
// conflicting drivers produce Error.
//
func Resolve(a, b Value) Value {
	switch {
	case a == Unknown:
		return b
	case b == Unknown:
		return a
	case a == b:
		return a
	}
	return Error
}

func (v Value) String() string {
	switch v {
	case False:
		return "0"
	case True:
		return "1"
	case Error:
		return "E"
	}
	return "x"
}

// Gate functions. A dominant input (False for And, True for Or) sets the
// output regardless of the other input. Otherwise undefined inputs give
// Error if either is Error, Unknown if not.

func undefined(a, b Value) Value {
	if a == Error || b == Error {
		return Error
	}
	return Unknown
}

// Not returns the complement of v.
//
func Not(v Value) Value {
	switch v {
	case True:
		return False
	case False:
		return True
	}
	return v
}

// And returns a AND b.
//
func And(a, b Value) Value {
	switch {
	case a == False || b == False:
		return False
	case a == True && b == True:
		return True
	}
	return undefined(a, b)
}

// Or returns a OR b.
//
func Or(a, b Value) Value {
	switch {
	case a == True || b == True:
		return True
	case a == False && b == False:
		return False
	}
	return undefined(a, b)
}

// Xor returns a XOR b.
//
func Xor(a, b Value) Value {
	if a.Defined() && b.Defined() {
		return FromBool(a != b)
	}
	return undefined(a, b)
}

// Bits is an ordered sequence of wire states. Bit 0 is the least significant.
//
type Bits []Value

// Unknowns returns a bus of the given width with every bit Unknown.
//
func Unknowns(width int) Bits {
	return make(Bits, width)
}

// Fill returns a bus of the given width with every bit set to v.
//
func Fill(width int, v Value) Bits {
	b := make(Bits, width)
	for i := range b {
		b[i] = v
	}
	return b
}

// FromInt returns the width low bits of n.
//
func FromInt(width int, n int64) Bits {
	b := make(Bits, width)
	for i := range b {
		b[i] = FromBool(n&(1<<uint(i)) != 0)
	}
	return b
}

// Width returns the number of bits in b.
//
func (b Bits) Width() int { return len(b) }

// Get returns bit i or Unknown if i is out of range.
//
func (b Bits) Get(i int) Value {
	if i < 0 || i >= len(b) {
		return Unknown
	}
	return b[i]
}

// FullyDefined returns true if b is not empty and all its bits are True or
// False.
//
func (b Bits) FullyDefined() bool {
	if len(b) == 0 {
		return false
	}
	for _, v := range b {
		if !v.Defined() {
			return false
		}
	}
	return true
}

// Int returns the bits of b that are True as an integer. Undefined bits count
// as 0.
//
func (b Bits) Int() int64 {
	var n int64
	for i, v := range b {
		if v == True {
			n |= 1 << uint(i)
		}
	}
	return n
}

// Defined returns the value of b and whether it is fully defined.
//
func (b Bits) Defined() (int64, bool) {
	return b.Int(), b.FullyDefined()
}

// Equal returns true if a and b have the same width and bits.
//
func (b Bits) Equal(o Bits) bool {
	if len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// String returns b msb first, like a probe would display it.
//
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for i := len(b) - 1; i >= 0; i-- {
		sb.WriteString(b[i].String())
	}
	return sb.String()
}
