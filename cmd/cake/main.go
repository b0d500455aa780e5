// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Command cake runs a RAM or dot matrix peripheral on a test bench, driven by
// a Lua stimulus script, and shows the result.
//
// Usage:
//
//	cake [flags]
//
// Without -script, a built-in demo for the selected peripheral runs. The
// final display is printed to stdout: with colors if stdout is a terminal,
// as plain text otherwise.
//
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/codergreen/cake"
	"github.com/codergreen/cake/caketest"
	"github.com/codergreen/cake/dotmatrix"
	"github.com/codergreen/cake/logger"
	"github.com/codergreen/cake/mem"
	"github.com/codergreen/cake/ram"
	"github.com/codergreen/cake/render"
	"github.com/codergreen/cake/script"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

type options struct {
	kind        string
	attrs       string
	spc         uint
	script      string
	png         string
	scale       int
	load, save  string
	interactive bool
	memviz      string
	log         bool
	stats       bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cake: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	var o options
	fs := flag.NewFlagSet("cake", flag.ContinueOnError)
	fs.StringVar(&o.kind, "periph", "matrix", "peripheral to simulate: ram or matrix")
	fs.StringVar(&o.attrs, "attrs", "", "comma separated peripheral attributes, e.g. matrixrows=8,matrixcols=8")
	fs.UintVar(&o.spc, "spc", 8, "simulation steps per clock cycle")
	fs.StringVar(&o.script, "script", "", "Lua stimulus `file`")
	fs.StringVar(&o.png, "png", "", "write the final matrix frame to a PNG `file`")
	fs.IntVar(&o.scale, "scale", 8, "size of a dot in PNG output, in pixels")
	fs.StringVar(&o.load, "load", "", "load RAM contents from a hex `file`")
	fs.StringVar(&o.save, "save", "", "save RAM contents to a hex `file` when done")
	fs.BoolVar(&o.interactive, "i", false, "step interactively after the script: space runs a clock cycle, s a single step, q quits")
	fs.StringVar(&o.memviz, "memviz", "", "write a graphviz dump of the peripheral state to `file`")
	fs.BoolVar(&o.log, "log", false, "echo the simulation log to stderr")
	fs.BoolVar(&o.stats, "statsview", false, "launch the runtime stats server")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return &o, nil
}

// parseAttrs splits "k1=v1,k2=v2".
//
func parseAttrs(s string) (map[string]string, error) {
	m := make(map[string]string)
	if s == "" {
		return m, nil
	}
	for _, kv := range strings.Split(s, ",") {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			return nil, errors.Errorf("malformed attribute %q", kv)
		}
		m[strings.TrimSpace(kv[:i])] = strings.TrimSpace(kv[i+1:])
	}
	return m, nil
}

// viewer logs the addresses a RAM scrolls to.
//
type viewer struct{}

func (viewer) ScrollTo(addr int) {
	logger.Logf(logger.Allow, "view", "address %#x", addr)
}

func newPeripheral(o *options) (*cake.Peripheral, error) {
	attrs, err := parseAttrs(o.attrs)
	if err != nil {
		return nil, err
	}
	switch o.kind {
	case "ram":
		cfg, err := ram.ParseAttrs(attrs)
		if err != nil {
			return nil, err
		}
		if o.load != "" {
			f, err := os.Open(o.load)
			if err != nil {
				return nil, errors.Wrap(err, "load contents")
			}
			defer f.Close()
			if err = mem.Load(f, cfg.Contents); err != nil {
				return nil, errors.Wrapf(err, "load %s", o.load)
			}
		}
		return cake.RAM(cfg, viewer{})
	case "matrix":
		cfg, err := dotmatrix.ParseAttrs(attrs)
		if err != nil {
			return nil, err
		}
		return cake.DotMatrix(cfg)
	}
	return nil, errors.Errorf("unknown peripheral %q", o.kind)
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if o.log {
		logger.SetEcho(os.Stderr)
	}
	if o.stats && !launchStats(os.Stderr) {
		return errors.New("built without statsview support")
	}

	p, err := newPeripheral(o)
	if err != nil {
		return err
	}
	if o.log {
		p.Log = logger.Allow
	}
	b, err := caketest.NewBench(p, o.spc, p.Kind == cake.KindRAM)
	if err != nil {
		return err
	}
	defer b.Dispose()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	s := script.New(b, os.Stdout)
	defer s.Close()
	if o.script != "" {
		err = s.RunFile(ctx, o.script)
	} else {
		err = s.Run(ctx, demos[p.Kind])
	}
	if err != nil {
		return err
	}

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if err = show(os.Stdout, b, tty); err != nil {
		return err
	}
	if o.interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("interactive mode needs a terminal")
		}
		if err = interact(b, func() error {
			fmt.Fprint(os.Stdout, "\x1b[H\x1b[2J")
			return show(os.Stdout, b, tty)
		}); err != nil {
			return err
		}
	}
	return finish(o, b)
}

// show prints the current display of the bench peripheral.
//
func show(w io.Writer, b *caketest.Bench, tty bool) error {
	fmt.Fprintf(w, "step %d\n", b.C.Steps())
	if b.P.Kind == cake.KindRAM {
		d, err := b.C.PaintRAM(b.ID)
		if err != nil {
			return err
		}
		cfg := b.P.RAMConfig()
		_, err = fmt.Fprintln(w, render.RAMLine(&cfg, d))
		return errors.Wrap(err, "show")
	}
	f, err := b.C.PaintMatrix(b.ID)
	if err != nil {
		return err
	}
	if !tty {
		return render.Text(w, f)
	}
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && f.Cols > cols {
		logger.Logf(logger.Allow, "cake", "%d columns do not fit a %d column terminal", f.Cols, cols)
	}
	return render.ANSI(w, f)
}

// interact reads single keys from stdin and steps the simulation.
//
func interact(b *caketest.Bench, redraw func() error) error {
	restore, err := cbreak(os.Stdin.Fd())
	if err != nil {
		return err
	}
	defer restore()
	key := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(key); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.Wrap(err, "read key")
		}
		switch key[0] {
		case ' ':
			b.C.TickTock()
		case 's':
			b.C.Step()
		case 'q', 4:
			return nil
		default:
			continue
		}
		if err = redraw(); err != nil {
			return err
		}
	}
}

// finish writes the requested output files.
//
func finish(o *options, b *caketest.Bench) error {
	if o.png != "" {
		if b.P.Kind != cake.KindDotMatrix {
			return errors.New("-png needs a dot matrix")
		}
		f, err := b.C.PaintMatrix(b.ID)
		if err != nil {
			return err
		}
		if err = writeFile(o.png, func(w io.Writer) error { return render.WritePNG(w, f, o.scale) }); err != nil {
			return err
		}
	}
	if o.save != "" {
		if b.P.Kind != cake.KindRAM {
			return errors.New("-save needs a RAM")
		}
		c := b.P.RAMConfig().Contents
		if err := writeFile(o.save, func(w io.Writer) error { return mem.Save(w, c) }); err != nil {
			return err
		}
	}
	if o.memviz != "" {
		st := b.C.State(b.ID)
		if err := writeFile(o.memviz, func(w io.Writer) error {
			memviz.Map(w, st)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(name string, f func(w io.Writer) error) error {
	out, err := os.Create(name)
	if err != nil {
		return errors.WithStack(err)
	}
	if err = f(out); err != nil {
		out.Close()
		return err
	}
	return errors.Wrapf(out.Close(), "write %s", name)
}
