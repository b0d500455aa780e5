// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package render draws peripheral displays as images or terminal text.
//
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/codergreen/cake/dotmatrix"
	"github.com/codergreen/cake/ram"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// circle is the mask of a round dot inscribed in a square of side d.
//
type circle struct {
	d int
}

func (c circle) ColorModel() color.Model { return color.AlphaModel }

func (c circle) Bounds() image.Rectangle { return image.Rect(0, 0, c.d, c.d) }

func (c circle) At(x, y int) color.Color {
	// compare doubled coordinates of the pixel center to the doubled radius
	r := c.d
	dx, dy := 2*x+1-r, 2*y+1-r
	if dx*dx+dy*dy <= r*r {
		return color.Alpha{255}
	}
	return color.Alpha{}
}

// Image renders a frame with each dot drawn as a scale x scale square, or
// circle depending on the frame's dot shape. Space around round dots is
// filled with the frame's off color.
//
func Image(f *dotmatrix.Frame, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := image.NewRGBA(image.Rect(0, 0, f.Cols, f.Rows))
	for r := 0; r < f.Rows; r++ {
		for c := 0; c < f.Cols; c++ {
			src.SetRGBA(c, r, f.At(r, c))
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, f.Cols*scale, f.Rows*scale))
	if f.Shape != dotmatrix.Circle {
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		return dst
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: f.OffColor}, image.Point{}, draw.Src)
	mask := circle{scale}
	for r := 0; r < f.Rows; r++ {
		for c := 0; c < f.Cols; c++ {
			cell := image.Rect(c*scale, r*scale, (c+1)*scale, (r+1)*scale)
			draw.DrawMask(dst, cell, &image.Uniform{C: f.At(r, c)}, image.Point{}, mask, image.Point{}, draw.Over)
		}
	}
	return dst
}

// WritePNG encodes the rendered frame as PNG.
//
func WritePNG(w io.Writer, f *dotmatrix.Frame, scale int) error {
	return errors.Wrap(png.Encode(w, Image(f, scale)), "encode png")
}

// ANSI writes the frame to a 24 bit color terminal. Each character cell shows
// two rows of dots.
//
func ANSI(w io.Writer, f *dotmatrix.Frame) error {
	var b strings.Builder
	for r := 0; r < f.Rows; r += 2 {
		for c := 0; c < f.Cols; c++ {
			top := f.At(r, c)
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", top.R, top.G, top.B)
			if r+1 < f.Rows {
				bot := f.At(r+1, c)
				fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm", bot.R, bot.G, bot.B)
			} else {
				b.WriteString("\x1b[49m")
			}
			b.WriteString("▀")
		}
		b.WriteString("\x1b[0m\n")
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write frame")
}

// Text writes the frame as plain text, '#' for lit dots and '.' for dark
// ones.
//
func Text(w io.Writer, f *dotmatrix.Frame) error {
	var b strings.Builder
	for r := 0; r < f.Rows; r++ {
		for c := 0; c < f.Cols; c++ {
			if p := f.At(r, c); p.R|p.G|p.B != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write frame")
}

// RAMLine formats what a RAM displays, e.g. "0x03: 0x42". Digits are sized
// to the configured widths.
//
func RAMLine(cfg *ram.Config, d ram.Display) string {
	aw, dw := (cfg.AddrBits+3)/4, (cfg.DataBits+3)/4
	if !d.Valid {
		return fmt.Sprintf("0x%s: 0x%s", strings.Repeat("-", aw), strings.Repeat("-", dw))
	}
	return fmt.Sprintf("0x%0*x: 0x%0*x", aw, d.Current, dw, d.Value)
}
