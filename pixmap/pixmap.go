// seehuhn.de/go/raster - streaming PNG encoding with colour management
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package pixmap implements in-memory raster images with 8-bit samples.
//
// A pixmap stores its samples in row-major order, with the colour
// components of each pixel followed by an optional alpha sample.  The
// colour space of a pixmap determines how the samples are interpreted;
// a pixmap without colour space is an alpha-only mask.
package pixmap

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/raster/color"
)

// DefaultResolution is the resolution, in dots per inch, of new pixmaps.
const DefaultResolution = 96

// Pixmap is a rectangular array of 8-bit samples.
type Pixmap struct {
	W, H int

	// N is the number of samples per pixel, including alpha.
	N     int
	Alpha bool

	XRes, YRes int

	// Stride is the number of bytes between the starts of two rows.
	Stride  int
	Samples []byte

	// Space is the colour space of the pixmap.  This is nil for alpha-only
	// masks.  The pixmap holds a reference to the colour space, which is
	// released by [Pixmap.Drop].
	Space *color.Space
}

// New allocates a pixmap of the given size, with all samples set to zero.
// If cs is nil, the pixmap is an alpha-only mask and alpha must be true.
func New(cs *color.Space, w, h int, alpha bool) (*Pixmap, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("pixmap: invalid size %dx%d", w, h)
	}
	n := 0
	if cs != nil {
		n = cs.N()
	} else if !alpha {
		return nil, errors.New("pixmap: no colour space and no alpha")
	}
	if alpha {
		n++
	}
	if w > 0 && h > math.MaxInt/(w*n) {
		return nil, fmt.Errorf("pixmap: image too large (%dx%d)", w, h)
	}

	return &Pixmap{
		W:       w,
		H:       h,
		N:       n,
		Alpha:   alpha,
		XRes:    DefaultResolution,
		YRes:    DefaultResolution,
		Stride:  w * n,
		Samples: make([]byte, w*n*h),
		Space:   cs.Keep(),
	}, nil
}

// Drop releases the colour space of the pixmap.
func (p *Pixmap) Drop() {
	if p == nil {
		return
	}
	p.Space.Drop()
	p.Space = nil
}

// Colorants returns the number of colour components per pixel.
func (p *Pixmap) Colorants() int {
	if p.Alpha {
		return p.N - 1
	}
	return p.N
}

// Row returns the samples of row y.
func (p *Pixmap) Row(y int) []byte {
	start := y * p.Stride
	return p.Samples[start : start+p.W*p.N]
}

// IsEmpty reports whether the pixmap has no pixels.
func (p *Pixmap) IsEmpty() bool {
	return p == nil || p.W == 0 || p.H == 0
}
