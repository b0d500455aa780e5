// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package dotmatrix

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Shape of a dot.
//
type Shape int

// Dot shapes.
//
const (
	Square Shape = iota
	Circle
)

func (s Shape) String() string {
	if s == Circle {
		return "circle"
	}
	return "square"
}

// Adjust selects how the width of the row selector is computed.
//
type Adjust int

// Row selector policies.
//
const (
	// AdjustAuto sizes the row selector to the smallest width that can
	// address every row.
	AdjustAuto Adjust = iota
	// AdjustNone always uses an 8 bit row selector.
	AdjustNone
)

func (a Adjust) String() string {
	if a == AdjustNone {
		return "none"
	}
	return "auto"
}

// Limits.
//
const (
	MaxCols    = 256
	MaxRows    = 256
	MaxPersist = math.MaxInt32
)

// Config is the configuration of a dot matrix.
//
// Persist is the number of ticks a lit dot keeps glowing after being
// overwritten.
//
type Config struct {
	Cols     int
	Rows     int
	OffColor color.RGBA
	Persist  int
	Shape    Shape
	Adjust   Adjust
}

// DefaultConfig returns a 64x64 matrix with square dots and no persistence.
//
func DefaultConfig() Config {
	return Config{
		Cols:     64,
		Rows:     64,
		OffColor: color.RGBA{64, 64, 64, 255},
		Shape:    Square,
		Adjust:   AdjustAuto,
	}
}

// Validate checks the configuration limits.
//
func (c *Config) Validate() error {
	if c.Cols < 1 || c.Cols > MaxCols {
		return errors.Errorf("column count %d out of range [1, %d]", c.Cols, MaxCols)
	}
	if c.Rows < 1 || c.Rows > MaxRows {
		return errors.Errorf("row count %d out of range [1, %d]", c.Rows, MaxRows)
	}
	if c.Persist < 0 || c.Persist > MaxPersist {
		return errors.Errorf("persistence %d out of range", c.Persist)
	}
	return nil
}

// Attribute names.
//
const (
	AttrCols     = "matrixcols"
	AttrRows     = "matrixrows"
	AttrOffColor = "offcolor"
	AttrPersist  = "persist"
	AttrShape    = "dotshape"
	AttrAdjust   = "adjust"
)

// Attrs returns the serialized configuration.
//
func (c *Config) Attrs() map[string]string {
	return map[string]string{
		AttrCols:     strconv.Itoa(c.Cols),
		AttrRows:     strconv.Itoa(c.Rows),
		AttrOffColor: fmt.Sprintf("#%02x%02x%02x", c.OffColor.R, c.OffColor.G, c.OffColor.B),
		AttrPersist:  strconv.Itoa(c.Persist),
		AttrShape:    c.Shape.String(),
		AttrAdjust:   c.Adjust.String(),
	}
}

// ParseAttrs builds a Config from serialized attributes. Missing attributes
// keep their default value.
//
func ParseAttrs(attrs map[string]string) (Config, error) {
	c := DefaultConfig()
	var err error
	for _, a := range []struct {
		name string
		v    *int
	}{{AttrCols, &c.Cols}, {AttrRows, &c.Rows}, {AttrPersist, &c.Persist}} {
		if s, ok := attrs[a.name]; ok {
			if *a.v, err = strconv.Atoi(s); err != nil {
				return c, errors.Wrap(err, a.name)
			}
		}
	}
	if s, ok := attrs[AttrOffColor]; ok {
		if c.OffColor, err = parseColor(s); err != nil {
			return c, err
		}
	}
	switch s := attrs[AttrShape]; s {
	case "", "square":
	case "circle":
		c.Shape = Circle
	default:
		return c, errors.Errorf("unknown dot shape %q", s)
	}
	switch s := attrs[AttrAdjust]; s {
	case "", "auto":
	case "none":
		c.Adjust = AdjustNone
	default:
		return c, errors.Errorf("unknown row adjust policy %q", s)
	}
	return c, c.Validate()
}

func parseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, errors.Errorf("malformed color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "malformed color %q", s)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}
