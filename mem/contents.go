// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package mem provides the addressable storage behind memory peripherals.
//
package mem

import "sync"

// Store is a fixed width memory array.
//
// Get returns 0 for addresses out of range. Set silently ignores them and
// truncates values to the data width.
//
type Store interface {
	Get(addr int) int64
	Set(addr int, v int64)
	Clear()
	Resize(addrBits, dataBits int)
}

// EventKind identifies what changed in a Contents.
//
type EventKind int

// Event kinds.
//
const (
	Written EventKind = iota
	Cleared
	Resized
)

// An Event describes a change. For Written events, Addr is the address and
// Old the previous value.
//
type Event struct {
	Kind EventKind
	Addr int
	Old  int64
}

// A Listener is notified after a Contents changes. Listeners are called with
// no lock held and must not assume they run on the simulation goroutine.
//
type Listener func(c *Contents, e Event)

const (
	pageBits = 10
	pageSize = 1 << pageBits
)

// Contents is a paged Store. Pages that were never written are not
// allocated.
//
type Contents struct {
	mu        sync.RWMutex
	addrBits  int
	dataBits  int
	pages     [][]int64
	listeners []Listener
}

// New returns zeroed contents with 2^addrBits words of dataBits bits.
//
func New(addrBits, dataBits int) *Contents {
	c := &Contents{}
	c.resize(addrBits, dataBits)
	return c
}

// AddrBits returns the address width.
//
func (c *Contents) AddrBits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.addrBits
}

// DataBits returns the data width.
//
func (c *Contents) DataBits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataBits
}

// Len returns the number of words.
//
func (c *Contents) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return 1 << uint(c.addrBits)
}

func (c *Contents) mask() int64 {
	return int64(1)<<uint(c.dataBits) - 1
}

// Get implements Store.
//
func (c *Contents) Get(addr int) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if addr < 0 || addr >= 1<<uint(c.addrBits) {
		return 0
	}
	p := c.pages[addr>>pageBits]
	if p == nil {
		return 0
	}
	return p[addr&(pageSize-1)]
}

// Set implements Store.
//
func (c *Contents) Set(addr int, v int64) {
	c.mu.Lock()
	if addr < 0 || addr >= 1<<uint(c.addrBits) {
		c.mu.Unlock()
		return
	}
	v &= c.mask()
	p := c.pages[addr>>pageBits]
	if p == nil {
		if v == 0 {
			c.mu.Unlock()
			return
		}
		p = make([]int64, c.pageLen())
		c.pages[addr>>pageBits] = p
	}
	old := p[addr&(pageSize-1)]
	p[addr&(pageSize-1)] = v
	c.mu.Unlock()
	if old != v {
		c.notify(Event{Written, addr, old})
	}
}

// Clear implements Store.
//
func (c *Contents) Clear() {
	c.mu.Lock()
	for i := range c.pages {
		c.pages[i] = nil
	}
	c.mu.Unlock()
	c.notify(Event{Kind: Cleared})
}

// Resize implements Store. Words that still fit are kept and truncated to
// the new data width.
//
func (c *Contents) Resize(addrBits, dataBits int) {
	c.mu.Lock()
	if addrBits == c.addrBits && dataBits == c.dataBits {
		c.mu.Unlock()
		return
	}
	c.resize(addrBits, dataBits)
	c.mu.Unlock()
	c.notify(Event{Kind: Resized})
}

func (c *Contents) pageLen() int {
	if n := 1 << uint(c.addrBits); n < pageSize {
		return n
	}
	return pageSize
}

func (c *Contents) resize(addrBits, dataBits int) {
	if addrBits < 1 {
		addrBits = 1
	}
	if dataBits < 1 {
		dataBits = 1
	}
	old := c.pages
	c.addrBits, c.dataBits = addrBits, dataBits
	n := (1<<uint(addrBits) + pageSize - 1) >> pageBits
	c.pages = make([][]int64, n)
	m := c.mask()
	for i, p := range old {
		if p == nil || i >= n {
			continue
		}
		np := make([]int64, c.pageLen())
		for j := range np {
			if j < len(p) {
				np[j] = p[j] & m
			}
		}
		c.pages[i] = np
	}
}

// Words calls f for every word in [start, end) in address order.
//
func (c *Contents) Words(start, end int, f func(addr int, v int64)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n := 1 << uint(c.addrBits); end > n {
		end = n
	}
	for a := start; a < end; a++ {
		var v int64
		if p := c.pages[a>>pageBits]; p != nil {
			v = p[a&(pageSize-1)]
		}
		f(a, v)
	}
}

// Last returns the address of the last non-zero word, or -1.
//
func (c *Contents) Last() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.pages) - 1; i >= 0; i-- {
		p := c.pages[i]
		for j := len(p) - 1; j >= 0; j-- {
			if p[j] != 0 {
				return i<<pageBits + j
			}
		}
	}
	return -1
}

// Clone returns a deep copy of c without its listeners.
//
func (c *Contents) Clone() *Contents {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := &Contents{addrBits: c.addrBits, dataBits: c.dataBits, pages: make([][]int64, len(c.pages))}
	for i, p := range c.pages {
		if p != nil {
			n.pages[i] = append([]int64(nil), p...)
		}
	}
	return n
}

// AddListener registers l. It returns a function that removes it.
//
func (c *Contents) AddListener(l Listener) (remove func()) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	idx := len(c.listeners) - 1
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if idx < len(c.listeners) {
			c.listeners[idx] = nil
		}
	}
}

func (c *Contents) notify(e Event) {
	c.mu.RLock()
	ls := append([]Listener(nil), c.listeners...)
	c.mu.RUnlock()
	for _, l := range ls {
		if l != nil {
			l(c, e)
		}
	}
}
