package script_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/caketest"
	"github.com/codergreen/cake/dotmatrix"
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/ram"
	"github.com/codergreen/cake/script"
)

func ramBench(t *testing.T) *caketest.Bench {
	t.Helper()
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
	return b
}

const writeRead = `
set("addr", 5)
set("cs", 1)
set("oe", "1")
set("clr", 0)
set("clk", 0)
set("we", 1)
set("din", "0011_1100")
step(2)
set("clk", 1)
step(13)
local v, s = get("data")
assert(v == 0x3c, "data = " .. s)
local a, d = display()
assert(a == 5 and d == 0x3c, "display")
print("data", v, steps())
set("din", nil)
step(2)
log("done")
`

func TestRun(t *testing.T) {
	b := ramBench(t)
	defer b.Dispose()
	var out bytes.Buffer
	s := script.New(b, &out)
	defer s.Close()

	if err := s.Run(context.Background(), writeRead); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "data\t60\t15\n" {
		t.Fatalf("output = %q", got)
	}
	if v, _ := b.Get("din"); !v.Equal(logic.Unknowns(8)) {
		t.Fatalf("din not released: %v", v)
	}
}

func TestRun_errors(t *testing.T) {
	b := ramBench(t)
	defer b.Dispose()
	s := script.New(b, &bytes.Buffer{})
	defer s.Close()

	for _, src := range []string{
		`set("nope", 1)`,
		`set("data", 1)`,
		`set("addr", "10z1")`,
		`set("addr", {})`,
		`get("nope")`,
		`dot(0, 0)`,
		`this is not lua`,
	} {
		if err := s.Run(context.Background(), src); err == nil {
			t.Errorf("%s: no error", src)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx, `while true do step() end`); err == nil {
		t.Error("cancelled script did not stop")
	}
}

func TestRunFile(t *testing.T) {
	cfg := dotmatrix.DefaultConfig()
	cfg.Rows, cfg.Cols = 2, 1
	p, err := cake.DotMatrix(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := caketest.NewBench(p, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Dispose()

	path := filepath.Join(t.TempDir(), "matrix.lua")
	src := `
set("c0", 0x07)
set("row", 1)
set("partial", 0)
set("full", 0)
step(3)
set("full", 1)
step(2)
local rows, cols = display()
assert(rows == 2 and cols == 1)
local r, g, b = dot(1, 0)
assert(r == 224 and g == 0 and b == 0, "dot = " .. r .. "," .. g .. "," .. b)
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	s := script.New(b, &bytes.Buffer{})
	defer s.Close()
	if err := s.RunFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}
}

func TestParseBits(t *testing.T) {
	td := []struct {
		in   string
		want logic.Bits
	}{
		{"10", logic.Bits{logic.False, logic.True}},
		{"x_E", logic.Bits{logic.Error, logic.Unknown}},
		{"", logic.Bits{}},
	}
	for _, d := range td {
		got, err := script.ParseBits(d.in)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(d.want) {
			t.Errorf("%q: got %v, want %v", d.in, got, d.want)
		}
	}
	if _, err := script.ParseBits("102"); err == nil {
		t.Error("no error for invalid bit")
	}
}
