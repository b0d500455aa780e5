// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package caketest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/port"
	"github.com/codergreen/cake/ram"
)

func randBits(r *rand.Rand, w int) logic.Bits {
	b := make(logic.Bits, w)
	for i := range b {
		b[i] = logic.FromBool(r.Int63()&(1<<62) != 0)
	}
	return b
}

// ComparePeripherals takes two peripherals and compares their outputs given the
// same inputs. Both peripherals must have the same port layout. Each
// iteration drives random values on every input and runs one clock cycle of
// spc steps.
//
func ComparePeripherals(t *testing.T, spc uint, clocked bool, iter int, p1, p2 *cake.Peripheral) {
	t.Helper()

	l1, l2 := p1.Ports(), p2.Ports()
	if len(l1) != len(l2) {
		t.Fatalf("port count mismatch: %d != %d", len(l1), len(l2))
	}
	for i := range l1 {
		if l1[i] != l2[i] {
			t.Fatalf("port #%d: %v != %v", i, l1[i], l2[i])
		}
	}

	b1, err := NewBench(p1, spc, clocked)
	if err != nil {
		t.Fatal(err)
	}
	defer b1.Dispose()
	b2, err := NewBench(p2, spc, clocked)
	if err != nil {
		t.Fatal(err)
	}
	defer b2.Dispose()

	inputs := make(map[string]logic.Bits)
	errString := func(oname string, ex, got logic.Bits) string {
		var b strings.Builder
		for _, p := range l1 {
			if v, ok := inputs[p.Name]; ok {
				if b.Len() > 0 {
					b.WriteString(", ")
				}
				b.WriteString(p.Name)
				b.WriteRune('=')
				b.WriteString(v.String())
			}
		}
		return fmt.Sprintf("\nExpected %s => %s=%v\nGot %v", b.String(), oname, ex, got)
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	set := func(f func(w int) logic.Bits) {
		for _, p := range l1 {
			if p.Dir == port.Output || (clocked && p.Name == ram.PinClock) {
				continue
			}
			v := f(p.Width)
			inputs[p.Name] = v
			if err := b1.Set(p.Name, v); err != nil {
				t.Fatal(err)
			}
			if err := b2.Set(p.Name, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	check := func() {
		b1.Step(int(b1.C.SPC()))
		b2.Step(int(b2.C.SPC()))
		for _, p := range l1 {
			if p.Dir == port.Input {
				continue
			}
			o1, _ := b1.Get(p.Name)
			o2, _ := b2.Get(p.Name)
			if !o1.Equal(o2) {
				t.Fatal(errString(p.Name, o1, o2))
			}
		}
	}

	start := time.Now()

	// try all 0, then all 1
	set(func(w int) logic.Bits { return logic.Fill(w, logic.False) })
	check()
	set(func(w int) logic.Bits { return logic.Fill(w, logic.True) })
	check()

	for i := 0; i < iter; i++ {
		set(func(w int) logic.Bits { return randBits(r, w) })
		check()
	}

	elapsed := time.Since(start)
	t.Logf("%d steps in %v", b1.C.Steps(), elapsed)
}
