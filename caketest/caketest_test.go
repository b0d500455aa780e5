package caketest_test

import (
	"testing"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/caketest"
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/mem"
	"github.com/codergreen/cake/ram"
)

func TestBench(t *testing.T) {
	cfg := ram.DefaultConfig()
	cfg.AddrBits, cfg.Bus = 4, ram.Separate
	p, err := cake.RAM(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := caketest.NewBench(p, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	for n, v := range map[string]int64{"addr": 5, "cs": 1, "oe": 1, "clr": 0, "clk": 0, "we": 1, "din": 0x3c} {
		if err := b.SetInt(n, v); err != nil {
			t.Fatal(err)
		}
	}
	b.Step(2)
	if err := b.Set("clk", logic.Bits{logic.True}); err != nil {
		t.Fatal(err)
	}
	b.Step(2)
	if got := p.RAMConfig().Contents.Get(5); got != 0x3c {
		t.Fatalf("contents[5] = %#x", got)
	}
	b.Step(11)
	d, err := b.Get("data")
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := d.Defined(); !ok || v != 0x3c {
		t.Fatalf("data = %v", d)
	}

	if err := b.Set("data", logic.Fill(8, logic.True)); err == nil {
		t.Fatal("drove an output port")
	}
	if err := b.Set("addr", logic.Bits{logic.True}); err == nil {
		t.Fatal("no error for width mismatch")
	}
	if err := b.SetInt("nope", 1); err == nil {
		t.Fatal("no error for unknown port")
	}
	if _, err := b.Get("nope"); err == nil {
		t.Fatal("no error for unknown port")
	}
}

func TestComparePeripherals(t *testing.T) {
	cfg := ram.DefaultConfig()
	cfg.AddrBits, cfg.Bus, cfg.Persist = 4, ram.Separate, ram.Persist
	cfg.Contents = mem.New(4, 8)
	for i := 0; i < 16; i += 3 {
		cfg.Contents.Set(i, int64(i*17))
	}
	attrs, err := cfg.Attrs()
	if err != nil {
		t.Fatal(err)
	}
	restored, err := ram.ParseAttrs(attrs)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := cake.RAM(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := cake.RAM(restored, nil)
	if err != nil {
		t.Fatal(err)
	}
	caketest.ComparePeripherals(t, 4, true, 64, p1, p2)
}
