// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cake

import (
	"github.com/codergreen/cake/dotmatrix"
	"github.com/codergreen/cake/logger"
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/mem"
	"github.com/codergreen/cake/port"
	"github.com/codergreen/cake/ram"
	"github.com/pkg/errors"
)

// Kind is the kind of a peripheral.
//
type Kind int

// Peripheral kinds.
//
const (
	KindRAM Kind = iota
	KindDotMatrix
)

func (k Kind) String() string {
	switch k {
	case KindRAM:
		return "RAM"
	case KindDotMatrix:
		return "DotMatrix"
	}
	return "Kind(?)"
}

// A Peripheral is a configured RAM or dot matrix that can be placed in a
// circuit with NewPart. Every placed part is a distinct instance with its own
// state. RAM instances of the same Peripheral share its contents.
//
type Peripheral struct {
	Name string
	Kind Kind
	// Log receives the events of the peripheral's instances. nil disables
	// logging.
	Log logger.Permission

	ram    ram.Config
	viewer ram.Viewer
	matrix dotmatrix.Config
	spec   *PartSpec
}

// RAM returns a RAM peripheral. v is notified of address changes and may be
// nil.
//
func RAM(cfg ram.Config, v ram.Viewer) (*Peripheral, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Contents == nil {
		cfg.Contents = mem.New(cfg.AddrBits, cfg.DataBits)
	} else if cfg.Contents.AddrBits() != cfg.AddrBits || cfg.Contents.DataBits() != cfg.DataBits {
		cfg.Contents.Resize(cfg.AddrBits, cfg.DataBits)
	}
	return newPeripheral(&Peripheral{Name: "RAM", Kind: KindRAM, ram: cfg, viewer: v}), nil
}

// DotMatrix returns a dot matrix peripheral.
//
func DotMatrix(cfg dotmatrix.Config) (*Peripheral, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newPeripheral(&Peripheral{Name: "DotMatrix", Kind: KindDotMatrix, matrix: cfg}), nil
}

func newPeripheral(p *Peripheral) *Peripheral {
	in, out := LayoutIO(p.Ports())
	p.spec = &PartSpec{Inputs: in, Outputs: out, Mount: p.mount}
	return p
}

// Ports returns the port layout of the peripheral.
//
func (p *Peripheral) Ports() port.Layout {
	if p.Kind == KindRAM {
		return ram.Ports(&p.ram)
	}
	return dotmatrix.Ports(&p.matrix)
}

// RAMConfig returns the RAM configuration.
//
func (p *Peripheral) RAMConfig() ram.Config { return p.ram }

// MatrixConfig returns the dot matrix configuration.
//
func (p *Peripheral) MatrixConfig() dotmatrix.Config { return p.matrix }

// NewPart is a NewPartFn placing a new instance of p.
//
func (p *Peripheral) NewPart(connections string) Part {
	p.spec.Name = p.Name
	return p.spec.NewPart(connections)
}

// Instance describes a placed peripheral.
//
type Instance struct {
	ID   InstanceID
	Kind Kind
	Name string
	p    *Peripheral
}

// Instances returns the peripheral instances of the circuit in placement
// order.
//
func (c *Circuit) Instances() []Instance {
	return append([]Instance(nil), c.instances...)
}

// Instance returns the first instance with the given name.
//
func (c *Circuit) Instance(name string) (Instance, bool) {
	for _, i := range c.instances {
		if i.Name == name {
			return i, true
		}
	}
	return Instance{}, false
}

func (c *Circuit) instance(id InstanceID) (Instance, error) {
	if id < 0 || int(id) >= len(c.instances) {
		return Instance{}, errors.Errorf("no such instance %d", id)
	}
	return c.instances[id], nil
}

// socketPorts gives a peripheral access to the pins of its socket.
//
type socketPorts struct {
	c    *Circuit
	d    Driver
	pins map[string]Bus
}

func newSocketPorts(s *Socket, l port.Layout) *socketPorts {
	ps := &socketPorts{c: s.c, d: s.Driver(), pins: make(map[string]Bus, len(l))}
	for _, p := range l {
		ps.pins[p.Name] = s.Bus(p.Name, p.Width)
	}
	return ps
}

func (ps *socketPorts) Get(name string) logic.Bits {
	b, ok := ps.pins[name]
	if !ok {
		return nil
	}
	return b.Get(ps.c)
}

func (ps *socketPorts) Set(name string, v logic.Bits, delay int) {
	if b, ok := ps.pins[name]; ok {
		b.Drive(ps.c, ps.d, v, delay)
	}
}

func (p *Peripheral) mount(s *Socket) []Component {
	c := s.c
	id := InstanceID(len(c.instances))
	c.instances = append(c.instances, Instance{id, p.Kind, p.Name, p})
	ps := newSocketPorts(s, p.Ports())
	reg := c.reg
	log := p.Log

	switch p.Kind {
	case KindRAM:
		cfg := p.ram
		v := p.viewer
		return []Component{func(c *Circuit) {
			st := reg.GetOrCreate(id, func() interface{} {
				st := ram.NewState(cfg.Contents, v)
				st.Log = log
				return st
			}).(*ram.State)
			ram.Propagate(&cfg, st, ps)
		}}
	default:
		cfg := p.matrix
		return []Component{func(c *Circuit) {
			tick := c.Steps()
			st := reg.GetOrCreate(id, func() interface{} {
				st := dotmatrix.NewState(&cfg, tick)
				st.Log = log
				return st
			}).(*dotmatrix.State)
			dotmatrix.Propagate(&cfg, st, ps, tick)
		}}
	}
}

// PaintRAM returns what a RAM instance displays. It is safe to call while
// the simulation runs.
//
func (c *Circuit) PaintRAM(id InstanceID) (ram.Display, error) {
	i, err := c.instance(id)
	if err != nil {
		return ram.Display{}, err
	}
	if i.Kind != KindRAM {
		return ram.Display{}, errors.Errorf("instance %d is a %v", id, i.Kind)
	}
	s, ok := c.reg.Get(id)
	if !ok {
		return ram.Display{Current: -1}, nil
	}
	return ram.Paint(s.(*ram.State)), nil
}

// PaintMatrix renders the display of a dot matrix instance. It is safe to
// call while the simulation runs.
//
func (c *Circuit) PaintMatrix(id InstanceID) (*dotmatrix.Frame, error) {
	i, err := c.instance(id)
	if err != nil {
		return nil, err
	}
	if i.Kind != KindDotMatrix {
		return nil, errors.Errorf("instance %d is a %v", id, i.Kind)
	}
	s, ok := c.reg.Get(id)
	if !ok {
		return nil, errors.Errorf("instance %d has not run yet", id)
	}
	return dotmatrix.Paint(&i.p.matrix, s.(*dotmatrix.State)), nil
}

// State returns the state of instance id, or nil if it does not exist.
//
func (c *Circuit) State(id InstanceID) interface{} {
	s, _ := c.reg.Get(id)
	return s
}
