package cake_test

import (
	"reflect"
	"testing"

	"github.com/codergreen/cake"
	"github.com/codergreen/cake/logic"
	"github.com/codergreen/cake/parts"
	"github.com/codergreen/cake/port"
	"github.com/pkg/errors"
)

const testTPC = 8

const (
	F = logic.False
	T = logic.True
	X = logic.Unknown
	E = logic.Error
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		return
	}
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	t.Log(err)
	if st, ok := err.(stackTracer); ok {
		t.Logf("%+v", st.StackTrace())
	}
	t.FailNow()
}

func wire(t *testing.T, c *cake.Circuit, name string) logic.Value {
	t.Helper()
	n, ok := c.Wire(name)
	if !ok {
		t.Fatalf("no wire %s", name)
	}
	return c.Get(n)
}

func wireBits(t *testing.T, c *cake.Circuit, name string, width int) logic.Bits {
	t.Helper()
	b := make(logic.Bits, width)
	for i := range b {
		b[i] = wire(t, c, port.PinName(name, i))
	}
	return b
}

func TestNewCircuit_errors(t *testing.T) {
	if _, err := cake.NewCircuit(0, testTPC); err == nil {
		t.Fatal("no error for empty part list")
	}
	one := func() int64 { return 1 }
	td := []struct {
		name string
		part cake.Part
	}{
		{"unknown pin", parts.InputN(2, one)("foo=a")},
		{"output to true", parts.InputN(2, one)("out=true")},
		{"output to clk", parts.Input(func() logic.Value { return T })("out=clk")},
		{"count mismatch", parts.InputN(2, one)("out[0..1]=w[0..2]")},
		{"syntax", parts.InputN(2, one)("out=")},
		{"indexed constant", parts.InputN(2, one)("out=false[1]")},
		{"connected twice", parts.InputN(2, one)("out[0]=a, out=b")},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c, err := cake.NewCircuit(0, testTPC, d.part)
			if err == nil {
				c.Dispose()
				t.Fatal("no error")
			}
		})
	}
}

func TestSPC(t *testing.T) {
	for _, d := range []struct{ in, want uint }{{0, 2}, {2, 2}, {3, 4}, {5, 8}, {8, 8}, {9, 16}} {
		c, err := cake.NewCircuit(1, d.in, parts.Input(func() logic.Value { return F })("out=a"))
		trace(t, err)
		if c.SPC() != uint64(d.want) {
			t.Errorf("SPC(%d) = %d, want %d", d.in, c.SPC(), d.want)
		}
		c.Dispose()
	}
}

func TestClock(t *testing.T) {
	var clk []logic.Value
	c, err := cake.NewCircuit(0, 4, parts.Output(func(v logic.Value) { clk = append(clk, v) })("in=clk"))
	trace(t, err)
	defer c.Dispose()
	if !c.AtTick() || c.AtTock() {
		t.Fatal("bad clock phase at step 0")
	}
	c.TickTock()
	if c.Steps() != 4 {
		t.Fatalf("TickTock ran %d steps", c.Steps())
	}
	if want := []logic.Value{T, T, F, F}; !reflect.DeepEqual(clk, want) {
		t.Fatalf("clk = %v, want %v", clk, want)
	}
	c.Tick()
	if !c.AtTock() || wire(t, c, cake.Clk) != F {
		t.Fatal("Tick did not stop at falling edge")
	}
}

func TestConstants(t *testing.T) {
	var got []logic.Value
	c, err := cake.NewCircuit(0, testTPC,
		parts.Output(func(v logic.Value) { got = append(got, v) })("in=true"),
		parts.Output(func(v logic.Value) { got = append(got, v) })("in=false"),
		parts.Output(func(v logic.Value) { got = append(got, v) })("in=floating"),
		// outputs connected to false are discarded
		parts.Input(func() logic.Value { return T })("out=false"),
	)
	trace(t, err)
	defer c.Dispose()
	c.Step()
	c.Step()
	if wire(t, c, cake.False) != F || wire(t, c, cake.True) != T {
		t.Fatal("constant overwritten")
	}
	for _, v := range got {
		if v == E {
			t.Fatal("constant resolved to Error")
		}
	}
	if wire(t, c, "floating") != X {
		t.Fatal("undriven wire is not Unknown")
	}
}

func TestMultipleDrivers(t *testing.T) {
	a, b := T, X
	c, err := cake.NewCircuit(0, testTPC,
		parts.InputBits(1, func() logic.Bits { return logic.Bits{a} })("out=w"),
		parts.InputBits(1, func() logic.Bits { return logic.Bits{b} })("out=w"),
	)
	trace(t, err)
	defer c.Dispose()

	td := []struct {
		a, b, want logic.Value
	}{
		{T, X, T},
		{X, F, F},
		{T, T, T},
		{T, F, E},
		{X, X, X},
		{E, X, E},
	}
	for _, d := range td {
		a, b = d.a, d.b
		c.Step()
		if got := wire(t, c, "w"); got != d.want {
			t.Errorf("%v + %v = %v, want %v", d.a, d.b, got, d.want)
		}
	}
}

func TestDelay(t *testing.T) {
	done := false
	spec := &cake.PartSpec{
		Name:    "Pulse",
		Outputs: cake.IO("out[2]"),
		Mount: func(s *cake.Socket) []cake.Component {
			out := s.Bus("out", 2)
			d := s.Driver()
			return []cake.Component{func(c *cake.Circuit) {
				if done {
					return
				}
				done = true
				c.Drive(d, out[0], T, 3)
				c.Drive(d, out[1], T, 0)
				c.Drive(d, out[1], F, 1)
			}}
		},
	}
	c, err := cake.NewCircuit(0, testTPC, spec.NewPart("out=p"))
	trace(t, err)
	defer c.Dispose()

	c.Step()
	if got := wireBits(t, c, "p", 2); !got.Equal(logic.Bits{X, F}) {
		t.Fatalf("after 1 step: %v", got)
	}
	c.Step()
	if wire(t, c, "p[0]") != X {
		t.Fatal("delayed value visible early")
	}
	c.Step()
	if wire(t, c, "p[0]") != T {
		t.Fatal("delayed value not visible")
	}
	c.Step()
	if got := wireBits(t, c, "p", 2); !got.Equal(logic.Bits{T, F}) {
		t.Fatalf("values not held: %v", got)
	}
}

func TestConnect(t *testing.T) {
	spec := &cake.PartSpec{Name: "P", Inputs: cake.IO("a, bus[4], s[1]")}
	if want := []string{"a", "bus[0]", "bus[1]", "bus[2]", "bus[3]", "s"}; !reflect.DeepEqual(spec.Inputs, want) {
		t.Fatalf("IO = %v", spec.Inputs)
	}
	td := []struct {
		in   string
		want []cake.Connection
	}{
		{"bus=w", []cake.Connection{{"bus[0]", "w[0]"}, {"bus[1]", "w[1]"}, {"bus[2]", "w[2]"}, {"bus[3]", "w[3]"}}},
		{"a=true, s[0]=x[3]", []cake.Connection{{"a", "true"}, {"s", "x[3]"}}},
		{"bus[1..2]=k", []cake.Connection{{"bus[1]", "k[0]"}, {"bus[2]", "k[1]"}}},
		{"bus[3..2]=k[0..1]", []cake.Connection{{"bus[3]", "k[0]"}, {"bus[2]", "k[1]"}}},
		{"bus[0..1]=c[5]", []cake.Connection{{"bus[0]", "c[5]"}, {"bus[1]", "c[5]"}}},
		{"bus[0..1]=false", []cake.Connection{{"bus[0]", "false"}, {"bus[1]", "false"}}},
	}
	for _, d := range td {
		t.Run(d.in, func(t *testing.T) {
			got, err := spec.Connect(d.in)
			trace(t, err)
			if !reflect.DeepEqual(got, d.want) {
				t.Fatalf("got %v, want %v", got, d.want)
			}
		})
	}
	for _, in := range []string{"a=w[0..1]", "bus=true[0]", "a=b, a=c", "bus[4]=x", "q=x"} {
		if _, err := spec.Connect(in); err == nil {
			t.Errorf("%q: no error", in)
		}
	}
}
