// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ram implements a configurable RAM peripheral.
//
// A RAM is driven by calling Propagate once per simulation step with the
// state of its ports. Depending on the bus mode, writes happen on the rising
// edge of clk (or on every step in Asynchronous mode) and the data port is
// driven with the word at the current address, or left Unknown when output
// is disabled or the chip is not selected.
//
package ram

import (
	"sync/atomic"

	"github.com/codergreen/cake/edge"
	"github.com/codergreen/cake/logger"
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/mem"
	"github.com/codergreen/cake/port"
)

// Delay is the number of steps between a RAM update and the data port
// reflecting it.
//
const Delay = 10

// Viewer is notified when the address tracked by a RAM changes so that a
// memory view can bring it into sight.
//
type Viewer interface {
	ScrollTo(addr int)
}

// State is the runtime state of one RAM instance.
//
type State struct {
	Store  mem.Store
	Viewer Viewer
	Log    logger.Permission // nil disables logging

	current atomic.Int64
	clock   edge.Detector
}

// NewState returns the state of a RAM working on store. v may be nil.
//
func NewState(store mem.Store, v Viewer) *State {
	st := &State{Store: store, Viewer: v}
	st.current.Store(-1)
	return st
}

// Current returns the last latched address or -1.
//
func (s *State) Current() int { return int(s.current.Load()) }

func (s *State) track(addr int) {
	s.current.Store(int64(addr))
	if s.Viewer != nil && addr >= 0 {
		s.Viewer.ScrollTo(addr)
	}
}

// wordOf converts a bus value to an integer. A missing value or one with any
// undefined bit is -1, i.e. all ones once masked to the data width.
//
func wordOf(v logic.Bits) int64 {
	if n, ok := v.Defined(); ok && len(v) > 0 {
		return n
	}
	return -1
}

// Propagate runs one simulation step.
//
func Propagate(cfg *Config, st *State, ps port.Values) {
	bus := cfg.Bus
	rw := bus == ReadWriteSeparated

	// the clock is sampled on every step so that edges are always relative to
	// the previous step, selected or not.
	triggered := bus == Asynchronous || st.clock.Update(port.Bit(ps, PinClock), edge.Rising)
	outputEnabled := port.Bit(ps, PinOE) != logic.False
	if rw {
		outputEnabled = port.Bit(ps, PinRead) != logic.False
	}
	clear := port.Bit(ps, PinClear) == logic.True

	if clear {
		st.Store.Clear()
		logger.Log(st.Log, "RAM", "clear")
	}

	if port.Bit(ps, PinCS) != logic.True {
		st.current.Store(-1)
		ps.Set(PinData, logic.Unknowns(cfg.DataBits), Delay)
		return
	}

	skipJump := rw && port.Bit(ps, PinReadSel) == logic.True

	a, ok := ps.Get(PinAddr).Defined()
	if !ok || a < 0 {
		return
	}
	addr := int(a)
	if addr != st.Current() && !skipJump {
		st.track(addr)
	}

	if !clear && triggered {
		var shouldStore bool
		switch bus {
		case Separate, ReadWriteSeparated:
			shouldStore = port.Bit(ps, PinWE) == logic.True
		default:
			shouldStore = !outputEnabled
		}
		if shouldStore {
			src := PinData
			if bus == Separate || rw {
				src = PinDataIn
			}
			st.Store.Set(addr, wordOf(ps.Get(src)))
		}
	}

	if !outputEnabled {
		ps.Set(PinData, logic.Unknowns(cfg.DataBits), Delay)
		return
	}

	read := addr
	if rw {
		// an undefined read address reads as -1, outside of the store.
		read = int(wordOf(ps.Get(PinReadAddr)))
		if read != st.Current() && skipJump {
			st.track(read)
		}
	}
	ps.Set(PinData, logic.FromInt(cfg.DataBits, st.Store.Get(read)), Delay)
}

// Display is what a RAM shows: the tracked address and the word stored there.
//
type Display struct {
	Current int
	Value   int64
	Valid   bool
}

// Paint returns the displayed state of st. It does not modify st.
//
func Paint(st *State) Display {
	cur := st.Current()
	if cur < 0 {
		return Display{Current: -1}
	}
	return Display{Current: cur, Value: st.Store.Get(cur), Valid: true}
}
