// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cake

import (
	"container/heap"
	"runtime"
	"sync"

	"github.com/codergreen/cake/logic"
	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Drive pin states.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query the socket for
// assigned pin numbers and return closures around these pin numbers.
//
// For example, an inverter can be defined like this:
//
//	not := &PartSpec{
//		Name:    "Not",
//		Inputs:  IO("in"),
//		Outputs: IO("out"),
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{func(c *Circuit) {
//				c.Set(out, logic.Not(c.Get(in)))
//			}}
//		}}
//
type MountFn func(s *Socket) []Component

// Circuit is a runnable circuit simulation.
//
// Pin states are double buffered: components read the state of the current
// step and drive values that become visible after a delay of at least one
// step. A pin keeps its value until one of its drivers changes it.
//
type Circuit struct {
	s0    []logic.Value // wire states frame #0
	s1    []logic.Value // wire states frame #1
	drv   [][]contrib   // active drivers per pin
	cs    []Component
	wires map[string]int
	count int    // wire count
	ndrv  Driver // driver count
	tpc   uint64 // steps per clock cycle
	tick  uint64

	mu     sync.Mutex
	events eventQueue
	seq    uint64

	reg       *Registry
	instances []Instance

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock cycle
// (the clk signal, not wall clock). It is rounded up to the next power of two.
//
// Parts are connected together through named wires; wires are created by the
// first connection that names them.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, stepsPerCycle uint, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	spc := uint64(stepsPerCycle)
	if spc < 2 {
		spc = 2
	}
	spc--
	spc |= spc >> 1
	spc |= spc >> 2
	spc |= spc >> 4
	spc |= spc >> 8
	spc |= spc >> 16
	spc |= spc >> 32
	spc++

	// new circuit with room for constant value pins.
	c := &Circuit{
		count: cstCount,
		ndrv:  1,
		tpc:   spc,
		wires: map[string]int{False: cstFalse, True: cstTrue, Clk: cstClk},
		reg:   NewRegistry(),
	}
	for i, p := range parts {
		if p.err != nil {
			return nil, errors.Wrapf(p.err, "part #%d (%s)", i, p.Name)
		}
		s, err := newSocket(c, p)
		if err != nil {
			return nil, errors.Wrapf(err, "part #%d (%s)", i, p.Name)
		}
		c.cs = append(c.cs, p.Mount(s)...)
	}
	c.s0 = make([]logic.Value, c.count)
	c.s1 = make([]logic.Value, c.count)
	c.drv = make([][]contrib, c.count)
	for _, s := range [][]logic.Value{c.s0, c.s1} {
		s[cstFalse] = logic.False
		s[cstTrue] = logic.True
		s[cstClk] = logic.True
	}

	// workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	ups := c.cs
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		c.wc = append(c.wc, wc)
		go worker(c, ups[:size], wc)
		ups = ups[size:]
	}

	return c, nil
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines. Instance states are destroyed.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
	c.reg.Clear()
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// wire returns the pin number of a named wire, allocating it as needed.
//
func (c *Circuit) wire(name string) int {
	n, ok := c.wires[name]
	if !ok {
		n = c.allocPin()
		c.wires[name] = n
	}
	return n
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

func (c *Circuit) allocDriver() Driver {
	d := c.ndrv
	c.ndrv++
	return d
}

// Wire returns the pin number of the named wire.
//
func (c *Circuit) Wire(name string) (int, bool) {
	n, ok := c.wires[name]
	return n, ok
}

// Registry returns the registry holding the state of peripheral instances.
//
func (c *Circuit) Registry() *Registry { return c.reg }

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint64 {
	return c.tick
}

// SPC returns the stepsPerCycle value.
//
func (c *Circuit) SPC() uint64 {
	return c.tpc
}

// AtTick returns true if the current step is at the beginning of a clock cycle
// (rising edge of clk).
//
func (c *Circuit) AtTick() bool {
	return c.tick&(c.tpc-1) == 0
}

// AtTock returns true if the current step is at the beginning of the second
// half of a clock cycle (falling edge of clk).
//
func (c *Circuit) AtTock() bool {
	return (c.tick+c.tpc/2)&(c.tpc-1) == 0
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) logic.Value {
	return c.s0[n]
}

// Drive schedules driver d to output v on pin n after delay steps. A delay
// less than 1 is treated as 1. When several drivers output on the same pin,
// the pin takes the resolved value of all of them.
//
func (c *Circuit) Drive(d Driver, n int, v logic.Value, delay int) {
	if delay < 1 {
		delay = 1
	}
	c.mu.Lock()
	c.seq++
	heap.Push(&c.events, event{at: c.tick + uint64(delay), seq: c.seq, d: d, pin: n, v: v})
	c.mu.Unlock()
}

// Set sets the state v of pin n on the next step. Set uses a default driver
// shared by all callers.
//
func (c *Circuit) Set(n int, v logic.Value) {
	c.Drive(defaultDriver, n, v, 1)
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}
	c.wg.Wait()

	c.tick++
	copy(c.s1, c.s0)
	c.updClock()
	c.mu.Lock()
	for len(c.events) > 0 && c.events[0].at <= c.tick {
		c.apply(heap.Pop(&c.events).(event))
	}
	c.mu.Unlock()
	c.s0, c.s1 = c.s1, c.s0
}

func (c *Circuit) updClock() {
	switch {
	case c.tick&(c.tpc-1) == 0:
		c.s1[cstClk] = logic.True
	case c.tick&(c.tpc/2-1) == 0:
		c.s1[cstClk] = logic.False
	}
}

// apply records the output of an event's driver and resolves the pin value.
//
func (c *Circuit) apply(e event) {
	if e.pin < cstCount {
		return
	}
	ds := c.drv[e.pin]
	found := false
	for i := range ds {
		if ds[i].d == e.d {
			ds[i].v = e.v
			found = true
			break
		}
	}
	if !found {
		ds = append(ds, contrib{e.d, e.v})
		c.drv[e.pin] = ds
	}
	v := logic.Unknown
	for _, x := range ds {
		v = logic.Resolve(v, x.v)
	}
	c.s1[e.pin] = v
}

// Tick runs the simulation until the beginning of the next half clock cycle.
//
func (c *Circuit) Tick() {
	for c.Get(cstClk) == logic.True {
		c.Step()
	}
}

// Tock runs the simulation until the beginning of the next clock cycle.
// Once Tock returns, the output of clocked components should have stabilized.
//
func (c *Circuit) Tock() {
	for c.Get(cstClk) != logic.True {
		c.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
//
func (c *Circuit) TickTock() {
	c.Tick()
	c.Tock()
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
