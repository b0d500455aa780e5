// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package ram

import (
	"strconv"
	"sync"

	"github.com/codergreen/cake/logic"
)

// maxLogBits caps the number of addresses offered for value logging.
const maxLogBits = 8

var logOptions [maxLogBits + 1]struct {
	once sync.Once
	opts []int
}

// LogOptions returns the addresses that can be logged for a RAM with the
// given address width: 0 to 2^min(addrBits, 8)-1. The returned slice is
// shared between callers and must not be modified.
//
func LogOptions(addrBits int) []int {
	if addrBits > maxLogBits {
		addrBits = maxLogBits
	}
	if addrBits < 0 {
		addrBits = 0
	}
	o := &logOptions[addrBits]
	o.once.Do(func() {
		o.opts = make([]int, 1<<uint(addrBits))
		for i := range o.opts {
			o.opts[i] = i
		}
	})
	return o.opts
}

// LogName returns the name of a logged address for a RAM at loc.
//
func LogName(loc string, addr int) string {
	return "RAM" + loc + "[" + strconv.Itoa(addr) + "]"
}

// LogValue returns the word at addr.
//
func LogValue(cfg *Config, st *State, addr int) logic.Bits {
	return logic.FromInt(cfg.DataBits, st.Store.Get(addr))
}
