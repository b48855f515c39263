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

// Package band implements the protocol for writing raster images in
// horizontal bands.
//
// An [Encoder] serialises one image in some output format.  A [Writer]
// drives an encoder: it checks that the calls arrive in the correct order,
// keeps track of the current row, clips the final band to the image height
// and finishes the image once all rows have been written.
//
// The sequence of calls is
//
//	WriteHeader, [WriteICC], WriteBand, WriteBand, ..., Close
//
// where the bands cover the image from top to bottom.  The bands may have
// any height.
package band

import (
	"errors"

	"seehuhn.de/go/raster/color"
)

// Header describes the geometry of an image.
type Header struct {
	Width, Height int

	// N is the number of samples per pixel, including alpha.
	N     int
	Alpha bool

	// XRes and YRes give the resolution in dots per inch.
	XRes, YRes int

	// PageNum is the zero-based page number, for formats which store
	// several pages in one file.
	PageNum int
}

// Encoder is implemented by the output formats.
//
// The methods are called by a [Writer] in the order Header, ICC (optional),
// Band (one or more times), Trailer.  Drop is called exactly once, after
// all other calls, also if an error occurred.
type Encoder interface {
	// Header starts a new image.
	Header(h *Header) error

	// ICC embeds the colour profile of cs, if cs has one.
	ICC(cs *color.Space) error

	// Band writes the rows start, ..., start+height-1 of the image.
	// Row i of the band starts at samples[i*stride].  The band is already
	// clipped to the image height.
	Band(stride, start, height int, samples []byte) error

	// Trailer finishes the image.
	Trailer() error

	// Drop releases all resources held by the encoder.
	Drop()
}

var (
	// ErrSequence indicates that the methods of a Writer were called in
	// the wrong order.
	ErrSequence = errors.New("band: invalid call sequence")

	// ErrTooMuchData indicates that a band was written after the image
	// was complete.
	ErrTooMuchData = errors.New("band: too much data")
)
