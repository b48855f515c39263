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

// Package png writes raster images as PNG files, band by band.
//
// The [Encoder] implements [band.Encoder].  Image rows are filtered using
// the PNG "Sub" filter and compressed by one zlib stream, which spans all
// bands of the image.  Compressed data is emitted as IDAT chunks while the
// bands arrive, so that the complete compressed image never needs to be
// held in memory.
package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"seehuhn.de/go/raster"
	"seehuhn.de/go/raster/band"
	"seehuhn.de/go/raster/color"
	"seehuhn.de/go/raster/internal/chunk"
	"seehuhn.de/go/raster/internal/predict"
)

// DefaultProfileName is the label used for embedded ICC profiles.
const DefaultProfileName = "ICC Profile"

// Options control the PNG output.  A nil *Options is equivalent to
// &Options{Level: zlib.DefaultCompression}.
type Options struct {
	// Level is the zlib compression level, from zlib.HuffmanOnly to
	// zlib.BestCompression.  The value 0 stores the data uncompressed.
	Level int

	// ProfileName is the label of the iCCP chunk.  If this is empty,
	// [DefaultProfileName] is used.  Longer names are truncated to 79
	// bytes.
	ProfileName string
}

var (
	// ErrFormat is returned if an image has a pixel layout which cannot
	// be stored in a PNG file.
	ErrFormat = errors.New("png: pixmap must be grayscale or rgb")

	errEmpty = errors.New("png: image has no pixels")
)

// CompressionError reports a failure of the zlib compressor.
type CompressionError struct {
	Err error
}

func (err *CompressionError) Error() string {
	return "png: compression error: " + err.Err.Error()
}

func (err *CompressionError) Unwrap() error {
	return err.Err
}

type encState int

const (
	encNew encState = iota
	encHeader
	encBanding
	encFinished
	encDone
)

// Encoder writes a single PNG image.
type Encoder struct {
	out   *chunk.Writer
	level int
	label string

	hdr   band.Header
	state encState

	udata []byte
	cdata []byte
	zw    *zlib.Writer
	idat  idatWriter
}

var _ band.Encoder = (*Encoder)(nil)

// NewEncoder returns a new Encoder which writes to w.
func NewEncoder(w io.Writer, opt *Options) *Encoder {
	e := &Encoder{
		out:   chunk.NewWriter(w),
		level: zlib.DefaultCompression,
		label: DefaultProfileName,
	}
	if opt != nil {
		e.level = opt.Level
		if opt.ProfileName != "" {
			e.label = opt.ProfileName
		}
	}
	if len(e.label) > 79 {
		e.label = e.label[:79]
	}
	e.idat.out = e.out
	return e
}

// NewWriter returns a band writer which writes a PNG image to w.
func NewWriter(w io.Writer, opt *Options) *band.Writer {
	return band.NewWriter(NewEncoder(w, opt))
}

// Header writes the PNG signature and the IHDR chunk.
//
// The image must have one (gray) or three (rgb) colour components, each
// with an optional alpha channel.  An alpha-only image is written as a
// grayscale image.
func (e *Encoder) Header(h *band.Header) error {
	if e.state != encNew {
		return fmt.Errorf("png: %w", band.ErrSequence)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return errEmpty
	}

	alpha := h.Alpha
	if h.N == 1 && alpha {
		alpha = false
	}
	colors := h.N
	if alpha {
		colors--
	}

	var colorType byte
	switch colors {
	case 1:
		colorType = 0 // grayscale
	case 3:
		colorType = 2 // rgb
	default:
		return ErrFormat
	}
	if alpha {
		colorType |= 4
	}

	e.hdr = *h
	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:], uint32(h.Width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(h.Height))
	ihdr[8] = 8 // bit depth
	ihdr[9] = colorType
	// compression method, filter method and interlace method are all 0

	if err := e.out.WriteSignature(); err != nil {
		return err
	}
	if err := e.out.WriteChunk(chunk.TypeIHDR, ihdr[:]); err != nil {
		return err
	}
	e.state = encHeader
	return nil
}

// ICC writes an iCCP chunk with the profile of cs.  Colour spaces without
// an ICC profile are ignored.
//
// If the profile cannot be compressed, no chunk is written and nil is
// returned.  Errors from the underlying writer are returned.
func (e *Encoder) ICC(cs *color.Space) error {
	if e.state != encHeader {
		return fmt.Errorf("png: %w", band.ErrSequence)
	}
	if cs == nil {
		return nil
	}
	profile := cs.ICCData()
	if profile == nil {
		return nil
	}

	payload := bytes.NewBuffer(make([]byte, 0, len(e.label)+2+compressBound(len(profile))))
	payload.WriteString(e.label)
	payload.Write([]byte{0, 0}) // separator, compression method
	err := compressProfile(payload, profile)
	if err != nil {
		raster.Logger().Warn("cannot compress ICC profile, omitting iCCP chunk",
			"space", cs.Name(), "error", err)
		return nil
	}
	return e.out.WriteChunk(chunk.TypeICCP, payload.Bytes())
}

// compressProfile writes the zlib-compressed profile data to w.
var compressProfile = func(w io.Writer, profile []byte) error {
	zw, err := zlib.NewWriterLevel(w, zlib.DefaultCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(profile); err != nil {
		return err
	}
	return zw.Close()
}

// Band filters and compresses the rows start, ..., start+height-1 and
// writes the compressed data as IDAT chunks.  The band which reaches the
// bottom of the image ends the zlib stream.
//
// Row y of the band starts at samples[y*stride].  An error is returned if
// stride is smaller than a row or if samples is too short for the band.
func (e *Encoder) Band(stride, start, height int, samples []byte) error {
	switch e.state {
	case encHeader, encBanding:
		// pass
	default:
		return fmt.Errorf("png: %w", band.ErrSequence)
	}

	final := start+height >= e.hdr.Height
	if final {
		height = e.hdr.Height - start
	}
	if height <= 0 {
		return nil
	}

	n := e.hdr.N
	rowBytes := e.hdr.Width * n
	usize := (rowBytes + 1) * height

	if stride < rowBytes {
		return fmt.Errorf("png: stride %d is less than the row size %d", stride, rowBytes)
	}
	if need := (height-1)*stride + rowBytes; len(samples) < need {
		return fmt.Errorf("png: band of %d rows needs %d bytes, got %d", height, need, len(samples))
	}

	if e.zw == nil {
		zw, err := zlib.NewWriterLevel(&e.idat, e.level)
		if err != nil {
			return &CompressionError{Err: err}
		}
		e.zw = zw
		e.cdata = make([]byte, 0, compressBound(usize))
		e.idat.buf = e.cdata
		raster.Logger().Debug("allocated PNG band buffers",
			"filtered", usize, "compressed", cap(e.cdata))
	}
	if usize > len(e.udata) {
		e.udata = make([]byte, usize)
	}
	e.state = encBanding

	for y := range height {
		row := samples[y*stride : y*stride+rowBytes]
		predict.EncodeRow(e.udata[y*(rowBytes+1):], row, nil, n, predict.Sub)
	}

	_, err := e.zw.Write(e.udata[:usize])
	if err == nil && final {
		err = e.zw.Close()
	}
	if err != nil {
		if e.idat.err != nil {
			return e.idat.err
		}
		return &CompressionError{Err: err}
	}
	if err := e.idat.flush(); err != nil {
		return err
	}
	if final {
		e.zw = nil
		e.state = encFinished
	}
	return nil
}

// Trailer writes the IEND chunk.
func (e *Encoder) Trailer() error {
	if e.state != encFinished {
		return fmt.Errorf("png: image incomplete: %w", band.ErrSequence)
	}
	e.state = encDone
	if err := e.out.WriteChunk(chunk.TypeIEND, nil); err != nil {
		return err
	}
	raster.Logger().Debug("PNG image written",
		"width", e.hdr.Width, "height", e.hdr.Height,
		"bytes", e.out.Offset(), "idat", e.idat.chunks)
	return nil
}

// Drop releases the buffers held by the encoder.  It is safe to call Drop
// more than once.
func (e *Encoder) Drop() {
	e.state = encDone
	e.udata = nil
	e.cdata = nil
	e.idat.buf = nil
	e.zw = nil
}

// compressBound returns an upper bound for the zlib-compressed size of n
// bytes of input.
func compressBound(n int) int {
	return n + n>>12 + n>>14 + n>>25 + 13
}
