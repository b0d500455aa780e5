// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package script runs Lua stimulus scripts against a peripheral test bench.
//
// Scripts see the following globals:
//
//	set(port, v)      drive an input port. v is a number, a bit string
//	                  (msb first, "0", "1" or "x" per bit) or nil to release it.
//	get(port)         returns the port value as a number, or nil if any bit is
//	                  undefined, followed by its bit string.
//	step([n])         run n steps (default 1).
//	ticktock([n])     run n clock cycles (default 1).
//	steps()           returns the number of steps run so far.
//	display()         RAM: returns the displayed address and value, or nil.
//	                  Dot matrix: returns rows and columns.
//	dot(row, col)     returns the red, green and blue components of a dot.
//	log(msg)          adds msg to the central log.
//	print(...)        writes to the script output.
//
package script

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/caketest"
	"github.com/codergreen/cake/logger"
	"github.com/codergreen/cake/logic"
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

// logging tag
const tag = "script"

// Script is a Lua interpreter bound to a bench.
//
type Script struct {
	b   *caketest.Bench
	out io.Writer
	L   *lua.LState
}

// New creates a Lua state bound to b. Output of print goes to out.
//
func New(b *caketest.Bench, out io.Writer) *Script {
	s := &Script{b: b, out: out, L: lua.NewState()}
	for name, fn := range map[string]lua.LGFunction{
		"set":      s.set,
		"get":      s.get,
		"step":     s.step,
		"ticktock": s.ticktock,
		"steps":    s.steps,
		"display":  s.display,
		"dot":      s.dot,
		"log":      s.log,
		"print":    s.print,
	} {
		s.L.SetGlobal(name, s.L.NewFunction(fn))
	}
	return s
}

// Close releases the Lua state. The bench is left untouched.
//
func (s *Script) Close() { s.L.Close() }

// Run executes a script. Cancelling ctx aborts it.
//
func (s *Script) Run(ctx context.Context, src string) error {
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	return errors.Wrap(s.L.DoString(src), "run script")
}

// RunFile executes a script file.
//
func (s *Script) RunFile(ctx context.Context, path string) error {
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	return errors.Wrapf(s.L.DoFile(path), "run %s", path)
}

// ParseBits parses a bit string, most significant bit first. '0', '1', 'x'
// and 'E' stand for False, True, Unknown and Error. Underscores are ignored.
//
func ParseBits(str string) (logic.Bits, error) {
	str = strings.ReplaceAll(str, "_", "")
	b := make(logic.Bits, len(str))
	for i, r := range str {
		var v logic.Value
		switch r {
		case '0':
			v = logic.False
		case '1':
			v = logic.True
		case 'x', 'X':
			v = logic.Unknown
		case 'e', 'E':
			v = logic.Error
		default:
			return nil, errors.Errorf("invalid bit %q in %q", r, str)
		}
		b[len(str)-1-i] = v
	}
	return b, nil
}

func (s *Script) set(L *lua.LState) int {
	name := L.CheckString(1)
	var err error
	switch v := L.CheckAny(2).(type) {
	case lua.LNumber:
		err = s.b.SetInt(name, int64(v))
	case lua.LString:
		var bits logic.Bits
		if bits, err = ParseBits(string(v)); err == nil {
			err = s.b.Set(name, bits)
		}
	default:
		if v != lua.LNil {
			L.ArgError(2, "number, string or nil expected, got "+v.Type().String())
			return 0
		}
		err = s.b.Set(name, nil)
	}
	if err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (s *Script) get(L *lua.LState) int {
	v, err := s.b.Get(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	if n, ok := v.Defined(); ok {
		L.Push(lua.LNumber(n))
	} else {
		L.Push(lua.LNil)
	}
	L.Push(lua.LString(v.String()))
	return 2
}

func (s *Script) step(L *lua.LState) int {
	s.b.Step(L.OptInt(1, 1))
	return 0
}

func (s *Script) ticktock(L *lua.LState) int {
	n := L.OptInt(1, 1)
	for i := 0; i < n; i++ {
		s.b.C.TickTock()
	}
	return 0
}

func (s *Script) steps(L *lua.LState) int {
	L.Push(lua.LNumber(s.b.C.Steps()))
	return 1
}

func (s *Script) display(L *lua.LState) int {
	switch s.b.P.Kind {
	case cake.KindRAM:
		d, err := s.b.C.PaintRAM(s.b.ID)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		if !d.Valid {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(d.Current))
		L.Push(lua.LNumber(d.Value))
		return 2
	default:
		f, err := s.b.C.PaintMatrix(s.b.ID)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		L.Push(lua.LNumber(f.Rows))
		L.Push(lua.LNumber(f.Cols))
		return 2
	}
}

func (s *Script) dot(L *lua.LState) int {
	row, col := L.CheckInt(1), L.CheckInt(2)
	f, err := s.b.C.PaintMatrix(s.b.ID)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		L.RaiseError("dot (%d, %d) out of range", row, col)
		return 0
	}
	c := f.At(row, col)
	L.Push(lua.LNumber(c.R))
	L.Push(lua.LNumber(c.G))
	L.Push(lua.LNumber(c.B))
	return 3
}

func (s *Script) log(L *lua.LState) int {
	logger.Log(logger.Allow, tag, L.CheckString(1))
	return 0
}

func (s *Script) print(L *lua.LState) int {
	args := make([]string, L.GetTop())
	for i := range args {
		args[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(s.out, strings.Join(args, "\t"))
	return 0
}
