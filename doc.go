/*
Package cake simulates memory and display peripherals in a step driven
digital circuit.

A Circuit is built from parts connected through named wires. Pins carry four
valued logic (see package logic): a pin nobody drives is Unknown and a pin
whose drivers disagree is Error. Each simulation step, every component reads
the pin states of the previous step and schedules new values with a delay of
at least one step.

Two peripherals are provided: a configurable RAM (package ram) and a row
scanned LED dot matrix (package dotmatrix). Their runtime state lives in the
circuit's Registry, keyed by instance, and can be rendered from another
goroutine with PaintRAM and PaintMatrix while the simulation runs:

	mem, _ := cake.RAM(ram.DefaultConfig(), nil)
	c, err := cake.NewCircuit(0, 8,
		parts.InputN(8, addr)("out=a"),
		mem.NewPart("addr=a, cs=true, clk=clk, rd=true, data=d"),
		parts.OutputN(8, show)("in=d"),
	)
	if err != nil {
		// handle error
	}
	defer c.Dispose()
	c.TickTock()

A built-in clock signal is available as the clk wire. The constant wires true
and false are also predefined.
*/
package cake
