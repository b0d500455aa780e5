// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package ram

import (
	"strconv"

	"github.com/codergreen/cake/mem"
	"github.com/pkg/errors"
)

// BusMode selects the control and data ports of a RAM and how reads and
// writes share them.
//
type BusMode int

// Bus modes.
//
//	Combined: one bidirectional data bus, clocked writes when oe is low.
//	Asynchronous: like Combined without a clock, writes happen on every step.
//	Separate: dedicated din bus, clocked writes gated by we.
//	ReadWriteSeparated: like Separate with an independent read address.
//
const (
	Combined BusMode = iota
	Asynchronous
	Separate
	ReadWriteSeparated
)

var busNames = [...]string{"combined", "asynch", "separate", "rwmode"}

func (b BusMode) String() string {
	if b < 0 || int(b) >= len(busNames) {
		return "BusMode(" + strconv.Itoa(int(b)) + ")"
	}
	return busNames[b]
}

// ParseBusMode parses the serialized name of a bus mode.
//
func ParseBusMode(s string) (BusMode, error) {
	for i, n := range busNames {
		if n == s {
			return BusMode(i), nil
		}
	}
	return Combined, errors.Errorf("unknown bus mode %q", s)
}

// PersistMode controls whether contents assigned to a configured RAM
// replace its store.
//
type PersistMode int

// Persist modes.
//
const (
	Begone PersistMode = iota
	Persist
)

func (p PersistMode) String() string {
	if p == Persist {
		return "persist"
	}
	return "begone"
}

// ParsePersistMode parses "persist" or "begone".
//
func ParsePersistMode(s string) (PersistMode, error) {
	switch s {
	case "persist":
		return Persist, nil
	case "begone":
		return Begone, nil
	}
	return Begone, errors.Errorf("unknown persist mode %q", s)
}

// Width limits.
//
const (
	MaxAddrBits = 24
	MaxDataBits = 32
)

// Config is the configuration of a RAM.
//
type Config struct {
	AddrBits int
	DataBits int
	Bus      BusMode
	Persist  PersistMode
	Contents *mem.Contents
}

// DefaultConfig returns an 8x8 RAM in ReadWriteSeparated mode.
//
func DefaultConfig() Config {
	return Config{
		AddrBits: 8,
		DataBits: 8,
		Bus:      ReadWriteSeparated,
		Persist:  Begone,
		Contents: mem.New(8, 8),
	}
}

// Validate checks the configured widths and mode.
//
func (c *Config) Validate() error {
	if c.AddrBits < 1 || c.AddrBits > MaxAddrBits {
		return errors.Errorf("address width %d out of range [1, %d]", c.AddrBits, MaxAddrBits)
	}
	if c.DataBits < 1 || c.DataBits > MaxDataBits {
		return errors.Errorf("data width %d out of range [1, %d]", c.DataBits, MaxDataBits)
	}
	if c.Bus < Combined || c.Bus > ReadWriteSeparated {
		return errors.Errorf("invalid bus mode %d", int(c.Bus))
	}
	return nil
}

// Resize changes the address and data widths. The contents are resized in
// place.
//
func (c *Config) Resize(addrBits, dataBits int) {
	c.AddrBits, c.DataBits = addrBits, dataBits
	if c.Contents == nil {
		c.Contents = mem.New(addrBits, dataBits)
		return
	}
	c.Contents.Resize(addrBits, dataBits)
}

// SetContents replaces the contents if the persist mode allows it. It
// returns true if the contents were replaced.
//
func (c *Config) SetContents(m *mem.Contents) bool {
	if c.Persist != Persist || m == nil {
		return false
	}
	c.Contents = m
	c.AddrBits, c.DataBits = m.AddrBits(), m.DataBits()
	return true
}

// Attribute names.
//
const (
	AttrAddrBits = "addrWidth"
	AttrDataBits = "dataWidth"
	AttrBus      = "bus"
	AttrPersist  = "persist"
	AttrContents = "contents"
)

// Attrs returns the serialized configuration.
//
func (c *Config) Attrs() (map[string]string, error) {
	m := map[string]string{
		AttrAddrBits: strconv.Itoa(c.AddrBits),
		AttrDataBits: strconv.Itoa(c.DataBits),
		AttrBus:      c.Bus.String(),
		AttrPersist:  c.Persist.String(),
	}
	if c.Contents != nil {
		s, err := mem.MarshalContents(c.Contents)
		if err != nil {
			return nil, errors.Wrap(err, "contents")
		}
		m[AttrContents] = s
	}
	return m, nil
}

// ParseAttrs builds a Config from serialized attributes. Missing attributes
// keep their default value. Contents that fail to parse are replaced by
// empty contents of the configured size.
//
func ParseAttrs(attrs map[string]string) (Config, error) {
	c := DefaultConfig()
	var err error
	if s, ok := attrs[AttrAddrBits]; ok {
		if c.AddrBits, err = strconv.Atoi(s); err != nil {
			return c, errors.Wrap(err, AttrAddrBits)
		}
	}
	if s, ok := attrs[AttrDataBits]; ok {
		if c.DataBits, err = strconv.Atoi(s); err != nil {
			return c, errors.Wrap(err, AttrDataBits)
		}
	}
	if s, ok := attrs[AttrBus]; ok {
		if c.Bus, err = ParseBusMode(s); err != nil {
			return c, err
		}
	}
	if s, ok := attrs[AttrPersist]; ok {
		if c.Persist, err = ParsePersistMode(s); err != nil {
			return c, err
		}
	}
	if err = c.Validate(); err != nil {
		return c, err
	}
	c.Contents = mem.New(c.AddrBits, c.DataBits)
	if s, ok := attrs[AttrContents]; ok {
		if m, perr := mem.ParseContents(s); perr == nil {
			m.Resize(c.AddrBits, c.DataBits)
			c.Contents = m
		}
	}
	return c, nil
}
