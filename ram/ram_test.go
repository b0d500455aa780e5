package ram_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/mem"
	"github.com/codergreen/cake/port"
	"github.com/codergreen/cake/ram"
)

const (
	F = logic.False
	T = logic.True
	X = logic.Unknown
)

var modes = []ram.BusMode{ram.Combined, ram.Asynchronous, ram.Separate, ram.ReadWriteSeparated}

type scrolls []int

func (s *scrolls) ScrollTo(addr int) { *s = append(*s, addr) }

func newRAM(bus ram.BusMode, addrBits, dataBits int) (*ram.Config, *ram.State, *scrolls) {
	cfg := &ram.Config{AddrBits: addrBits, DataBits: dataBits, Bus: bus, Contents: mem.New(addrBits, dataBits)}
	var s scrolls
	return cfg, ram.NewState(cfg.Contents, &s), &s
}

// step builds the port values for one step. Control bits default to a
// selected chip with output disabled and a low clock.
func step(cfg *ram.Config, addr int64, ctl map[string]logic.Value) *port.Map {
	m := port.NewMap()
	m.SetInt(ram.PinAddr, cfg.AddrBits, addr)
	for _, n := range []string{ram.PinCS, ram.PinOE, ram.PinClear, ram.PinClock, ram.PinWE, ram.PinRead, ram.PinReadSel} {
		m.SetBit(n, F)
	}
	m.SetBit(ram.PinCS, T)
	for k, v := range ctl {
		m.SetBit(k, v)
	}
	return m
}

func dataOut(t *testing.T, m *port.Map) logic.Bits {
	t.Helper()
	w, ok := m.Out[ram.PinData]
	if !ok {
		t.Fatal("data port not driven")
	}
	if w.Delay != ram.Delay {
		t.Fatalf("data driven with delay %d, want %d", w.Delay, ram.Delay)
	}
	return w.Value
}

func TestPorts(t *testing.T) {
	td := []struct {
		bus   ram.BusMode
		names []string
	}{
		{ram.Combined, []string{"addr", "data", "cs", "oe", "clr", "clk"}},
		{ram.Asynchronous, []string{"addr", "data", "cs", "oe", "clr"}},
		{ram.Separate, []string{"addr", "data", "cs", "oe", "clr", "clk", "we", "din"}},
		{ram.ReadWriteSeparated, []string{"addr", "data", "cs", "oe", "clr", "clk", "we", "din", "rd", "rdsel", "raddr"}},
	}
	for _, d := range td {
		t.Run(d.bus.String(), func(t *testing.T) {
			cfg := &ram.Config{AddrBits: 6, DataBits: 12, Bus: d.bus}
			l := ram.Ports(cfg)
			var names []string
			for _, p := range l {
				names = append(names, p.Name)
			}
			if !reflect.DeepEqual(names, d.names) {
				t.Fatalf("ports = %v, want %v", names, d.names)
			}
			if p, _ := l.Find(ram.PinAddr); p.Width != 6 {
				t.Fatalf("addr width %d", p.Width)
			}
			if p, _ := l.Find(ram.PinData); p.Width != 12 {
				t.Fatalf("data width %d", p.Width)
			}
			if p, ok := l.Find(ram.PinReadAddr); ok && p.Width != 6 {
				t.Fatalf("raddr width %d", p.Width)
			}
			// pure function of the config
			if !reflect.DeepEqual(l, ram.Ports(cfg)) {
				t.Fatal("layout is not stable")
			}
		})
	}
}

func TestChipSelect(t *testing.T) {
	for _, bus := range modes {
		t.Run(bus.String(), func(t *testing.T) {
			cfg, st, _ := newRAM(bus, 4, 8)
			st.Store.Set(3, 0x5a)
			// latch an address first
			m := step(cfg, 3, map[string]logic.Value{ram.PinOE: T, ram.PinRead: T})
			ram.Propagate(cfg, st, m)
			if st.Current() != 3 {
				t.Fatalf("current = %d", st.Current())
			}
			// deselect with every other input active
			m = step(cfg, 3, map[string]logic.Value{ram.PinCS: F, ram.PinOE: T, ram.PinRead: T, ram.PinWE: T, ram.PinClock: T})
			m.SetInt(ram.PinDataIn, 8, 1)
			ram.Propagate(cfg, st, m)
			if st.Current() != -1 {
				t.Fatalf("current = %d after deselect", st.Current())
			}
			if !dataOut(t, m).Equal(logic.Unknowns(8)) {
				t.Fatalf("data = %v", dataOut(t, m))
			}
			if st.Store.Get(3) != 0x5a {
				t.Fatal("store written while deselected")
			}
			// unknown chip select also deselects
			m = step(cfg, 3, map[string]logic.Value{ram.PinCS: X, ram.PinOE: T})
			ram.Propagate(cfg, st, m)
			if !dataOut(t, m).Equal(logic.Unknowns(8)) {
				t.Fatal("unknown chip select drove data")
			}
		})
	}
}

func TestClear(t *testing.T) {
	for _, bus := range modes {
		for _, cs := range []logic.Value{T, F} {
			cfg, st, _ := newRAM(bus, 4, 8)
			st.Store.Set(1, 9)
			st.Store.Set(15, 9)
			ram.Propagate(cfg, st, step(cfg, 1, map[string]logic.Value{ram.PinCS: cs, ram.PinClear: T}))
			if st.Store.Get(1) != 0 || st.Store.Get(15) != 0 {
				t.Errorf("%v cs=%v: store not cleared", bus, cs)
			}
		}
	}
}

// a clocked write in the same step as a clear must not happen.
func TestClear_noWrite(t *testing.T) {
	cfg, st, _ := newRAM(ram.Separate, 4, 8)
	m := step(cfg, 2, map[string]logic.Value{ram.PinClear: T, ram.PinClock: T, ram.PinWE: T})
	m.SetInt(ram.PinDataIn, 8, 0x33)
	ram.Propagate(cfg, st, m)
	if st.Store.Get(2) != 0 {
		t.Fatal("write happened during clear")
	}
}

func TestCombined_outputEnabledBlocksWrite(t *testing.T) {
	cfg, st, _ := newRAM(ram.Combined, 4, 8)
	st.Store.Set(5, 0x11)
	ram.Propagate(cfg, st, step(cfg, 5, map[string]logic.Value{ram.PinOE: T}))
	m := step(cfg, 5, map[string]logic.Value{ram.PinOE: T, ram.PinClock: T})
	m.SetInt(ram.PinData, 8, 0x99)
	ram.Propagate(cfg, st, m)
	if st.Store.Get(5) != 0x11 {
		t.Fatalf("store[5] = %x, write happened with oe high", st.Store.Get(5))
	}
	if v := dataOut(t, m); v.Int() != 0x11 {
		t.Fatalf("data = %v", v)
	}
}

func TestCombined_scenario(t *testing.T) {
	cfg, st, sc := newRAM(ram.Combined, 4, 8)

	// clock low
	ram.Propagate(cfg, st, step(cfg, 5, nil))
	// rising edge, oe low: write the data bus
	m := step(cfg, 5, map[string]logic.Value{ram.PinClock: T})
	m.SetInt(ram.PinData, 8, 0xa7)
	ram.Propagate(cfg, st, m)
	if st.Store.Get(5) != 0xa7 {
		t.Fatalf("store[5] = %x", st.Store.Get(5))
	}
	if !dataOut(t, m).Equal(logic.Unknowns(8)) {
		t.Fatal("data driven while oe low")
	}
	// oe high, same address: output the stored value
	m = step(cfg, 5, map[string]logic.Value{ram.PinClock: T, ram.PinOE: T})
	ram.Propagate(cfg, st, m)
	if v := dataOut(t, m); !v.FullyDefined() || v.Int() != 0xa7 {
		t.Fatalf("data = %v", v)
	}
	if !reflect.DeepEqual([]int(*sc), []int{5}) {
		t.Fatalf("scrolls = %v", *sc)
	}
	if d := ram.Paint(st); !d.Valid || d.Current != 5 || d.Value != 0xa7 {
		t.Fatalf("Paint() = %+v", d)
	}
}

func TestIdempotent(t *testing.T) {
	cfg, st, _ := newRAM(ram.Combined, 4, 8)
	ram.Propagate(cfg, st, step(cfg, 2, nil))

	in := func(v int64) *port.Map {
		m := step(cfg, 2, map[string]logic.Value{ram.PinClock: T})
		m.SetInt(ram.PinData, 8, v)
		return m
	}
	ram.Propagate(cfg, st, in(1))
	if st.Store.Get(2) != 1 {
		t.Fatal("first edge did not write")
	}
	// same clock level again with a different bus value: no new edge
	ram.Propagate(cfg, st, in(2))
	if st.Store.Get(2) != 1 {
		t.Fatal("held clock retriggered a write")
	}
	// low then high again
	ram.Propagate(cfg, st, step(cfg, 2, nil))
	ram.Propagate(cfg, st, in(3))
	if st.Store.Get(2) != 3 {
		t.Fatal("second edge did not write")
	}
}

func TestAsynchronous(t *testing.T) {
	cfg, st, _ := newRAM(ram.Asynchronous, 4, 8)
	m := step(cfg, 9, nil)
	m.SetInt(ram.PinData, 8, 0x42)
	ram.Propagate(cfg, st, m)
	if st.Store.Get(9) != 0x42 {
		t.Fatal("asynchronous write did not happen without a clock")
	}
}

func TestSeparate(t *testing.T) {
	cfg, st, _ := newRAM(ram.Separate, 4, 8)
	ram.Propagate(cfg, st, step(cfg, 4, nil))
	// we low: no write
	m := step(cfg, 4, map[string]logic.Value{ram.PinClock: T})
	m.SetInt(ram.PinDataIn, 8, 0x10)
	ram.Propagate(cfg, st, m)
	if st.Store.Get(4) != 0 {
		t.Fatal("write without we")
	}
	ram.Propagate(cfg, st, step(cfg, 4, nil))
	// we high, oe high: write din and read it back in the same step
	m = step(cfg, 4, map[string]logic.Value{ram.PinClock: T, ram.PinWE: T, ram.PinOE: T})
	m.SetInt(ram.PinDataIn, 8, 0x20)
	ram.Propagate(cfg, st, m)
	if st.Store.Get(4) != 0x20 {
		t.Fatal("write with we did not happen")
	}
	if v := dataOut(t, m); v.Int() != 0x20 {
		t.Fatalf("data = %v", v)
	}
}

func TestReadWriteSeparated(t *testing.T) {
	cfg, st, sc := newRAM(ram.ReadWriteSeparated, 4, 8)
	st.Store.Set(12, 0xcc)

	// write 0x77 at 3, read 12 at the same time
	ram.Propagate(cfg, st, step(cfg, 3, nil))
	m := step(cfg, 3, map[string]logic.Value{ram.PinClock: T, ram.PinWE: T, ram.PinRead: T})
	m.SetInt(ram.PinDataIn, 8, 0x77)
	m.SetInt(ram.PinReadAddr, 4, 12)
	ram.Propagate(cfg, st, m)
	if st.Store.Get(3) != 0x77 {
		t.Fatal("write did not happen")
	}
	if v := dataOut(t, m); v.Int() != 0xcc {
		t.Fatalf("data = %v, want cc", v)
	}
	if st.Current() != 3 {
		t.Fatalf("current = %d", st.Current())
	}

	// rdsel: track the read address instead
	m = step(cfg, 3, map[string]logic.Value{ram.PinRead: T, ram.PinReadSel: T})
	m.SetInt(ram.PinReadAddr, 4, 12)
	ram.Propagate(cfg, st, m)
	if st.Current() != 12 {
		t.Fatalf("current = %d, want 12", st.Current())
	}
	if !reflect.DeepEqual([]int(*sc), []int{3, 12}) {
		t.Fatalf("scrolls = %v", *sc)
	}

	// oe is ignored in this mode, rd low disables output
	m = step(cfg, 3, map[string]logic.Value{ram.PinOE: T})
	m.SetInt(ram.PinReadAddr, 4, 12)
	ram.Propagate(cfg, st, m)
	if !dataOut(t, m).Equal(logic.Unknowns(8)) {
		t.Fatal("data driven with rd low")
	}

	// an undefined read address reads outside of the store, as 0
	m = step(cfg, 3, map[string]logic.Value{ram.PinRead: T})
	m.In[ram.PinReadAddr] = logic.Bits{T, X, F, F}
	ram.Propagate(cfg, st, m)
	if v, ok := dataOut(t, m).Defined(); !ok || v != 0 {
		t.Fatalf("data = %v for undefined read address, want 0", dataOut(t, m))
	}
	m = step(cfg, 3, map[string]logic.Value{ram.PinRead: T, ram.PinReadSel: T})
	m.In[ram.PinReadAddr] = logic.Bits{T, X, F, F}
	ram.Propagate(cfg, st, m)
	if st.Current() != -1 {
		t.Fatalf("current = %d, want -1", st.Current())
	}
	if !reflect.DeepEqual([]int(*sc), []int{3, 12, 3}) {
		t.Fatalf("viewer scrolled to an undefined address: %v", *sc)
	}
}

func TestUndefinedData(t *testing.T) {
	for _, bus := range modes {
		cfg, st, _ := newRAM(bus, 4, 8)
		ram.Propagate(cfg, st, step(cfg, 2, nil))
		// oe low so that Combined and Asynchronous modes store the data port
		m := step(cfg, 2, map[string]logic.Value{ram.PinClock: T, ram.PinWE: T})
		v := logic.Bits{T, X, F, F, F, F, F, F}
		m.In[ram.PinData] = v
		m.In[ram.PinDataIn] = v
		ram.Propagate(cfg, st, m)
		if got := st.Store.Get(2); got != 0xff {
			t.Errorf("%v: stored %#x, want 0xff", bus, got)
		}
	}
}

func TestUndefinedAddress(t *testing.T) {
	for _, bus := range modes {
		cfg, st, _ := newRAM(bus, 4, 8)
		ram.Propagate(cfg, st, step(cfg, 1, map[string]logic.Value{ram.PinOE: T, ram.PinRead: T}))
		m := step(cfg, 0, map[string]logic.Value{ram.PinOE: T, ram.PinRead: T, ram.PinClock: T, ram.PinWE: T})
		m.In[ram.PinAddr] = logic.Bits{T, X, F, F}
		m.SetInt(ram.PinData, 8, 0xff)
		m.SetInt(ram.PinDataIn, 8, 0xff)
		ram.Propagate(cfg, st, m)
		if len(m.Out) != 0 {
			t.Errorf("%v: ports written with undefined address: %v", bus, m.Out)
		}
		if st.Current() != 1 {
			t.Errorf("%v: current changed to %d", bus, st.Current())
		}
		if st.Store.Get(1) != 0 {
			t.Errorf("%v: store written", bus)
		}
	}
}

func TestNilViewer(t *testing.T) {
	cfg := &ram.Config{AddrBits: 4, DataBits: 8, Bus: ram.Combined, Contents: mem.New(4, 8)}
	st := ram.NewState(cfg.Contents, nil)
	ram.Propagate(cfg, st, step(cfg, 7, nil))
	if st.Current() != 7 {
		t.Fatal("address not tracked without a viewer")
	}
	if d := ram.Paint(ram.NewState(cfg.Contents, nil)); d.Valid || d.Current != -1 {
		t.Fatalf("fresh Paint() = %+v", d)
	}
}

func TestLogOptions(t *testing.T) {
	var wg sync.WaitGroup
	res := make([][]int, 8)
	for i := range res {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res[i] = ram.LogOptions(3)
		}(i)
	}
	wg.Wait()
	for _, r := range res[1:] {
		if &r[0] != &res[0][0] {
			t.Fatal("log options not shared")
		}
	}
	if !reflect.DeepEqual(res[0], []int{0, 1, 2, 3, 4, 5, 6, 7}) {
		t.Fatalf("LogOptions(3) = %v", res[0])
	}
	if n := len(ram.LogOptions(20)); n != 256 {
		t.Fatalf("LogOptions(20) has %d entries", n)
	}
	if s := ram.LogName("(10,20)", 4); s != "RAM(10,20)[4]" {
		t.Fatalf("LogName() = %s", s)
	}
	cfg, st, _ := newRAM(ram.Combined, 4, 8)
	st.Store.Set(2, 0x81)
	if v := ram.LogValue(cfg, st, 2); v.Int() != 0x81 || v.Width() != 8 {
		t.Fatalf("LogValue() = %v", v)
	}
}
