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

package band

import (
	"fmt"

	"seehuhn.de/go/raster/color"
)

type state int

const (
	stateNew state = iota
	stateHeader
	stateBanding
	stateDone
	stateFailed
	stateClosed
)

// Writer writes an image to an [Encoder], band by band.
// A Writer must not be used concurrently.
type Writer struct {
	enc   Encoder
	hdr   Header
	state state
	line  int
}

// NewWriter returns a new Writer which writes to enc.
func NewWriter(enc Encoder) *Writer {
	return &Writer{enc: enc}
}

// WriteHeader starts the image.  This must be called exactly once, before
// any other method.  An image of height zero is finished immediately.
func (w *Writer) WriteHeader(h *Header) error {
	if w.state != stateNew {
		return fmt.Errorf("WriteHeader: %w", ErrSequence)
	}
	if h.Width < 0 || h.Height < 0 || h.N < 1 || h.N > color.MaxColors+1 {
		return fmt.Errorf("band: invalid image geometry %dx%d, n=%d", h.Width, h.Height, h.N)
	}
	w.hdr = *h

	if err := w.enc.Header(&w.hdr); err != nil {
		w.state = stateFailed
		return err
	}
	w.state = stateHeader
	if w.hdr.Height == 0 {
		return w.finish()
	}
	return nil
}

// WriteICC embeds the colour profile of cs.  This can only be called
// between WriteHeader and the first WriteBand.
func (w *Writer) WriteICC(cs *color.Space) error {
	if w.state != stateHeader {
		return fmt.Errorf("WriteICC: %w", ErrSequence)
	}
	if err := w.enc.ICC(cs); err != nil {
		w.state = stateFailed
		return err
	}
	return nil
}

// WriteBand writes the next height rows of the image.  Row i of the band
// starts at samples[i*stride].  A band which extends beyond the bottom of
// the image is clipped.  Once the last row has been written, the image is
// finished.
func (w *Writer) WriteBand(stride, height int, samples []byte) error {
	switch w.state {
	case stateHeader, stateBanding:
		// pass
	case stateDone:
		return ErrTooMuchData
	default:
		return fmt.Errorf("WriteBand: %w", ErrSequence)
	}
	if height <= 0 {
		return nil
	}

	rowBytes := w.hdr.Width * w.hdr.N
	if stride < rowBytes {
		return fmt.Errorf("band: stride %d too small for row of %d bytes", stride, rowBytes)
	}
	height = min(height, w.hdr.Height-w.line)
	if need := (height-1)*stride + rowBytes; len(samples) < need {
		return fmt.Errorf("band: %d bytes of sample data, need %d", len(samples), need)
	}

	w.state = stateBanding
	if err := w.enc.Band(stride, w.line, height, samples); err != nil {
		w.state = stateFailed
		return err
	}
	w.line += height
	if w.line >= w.hdr.Height {
		return w.finish()
	}
	return nil
}

func (w *Writer) finish() error {
	if err := w.enc.Trailer(); err != nil {
		w.state = stateFailed
		return err
	}
	w.state = stateDone
	return nil
}

// Line returns the number of rows written so far.
func (w *Writer) Line() int {
	return w.line
}

// Done reports whether the complete image has been written.
func (w *Writer) Done() bool {
	return w.state == stateDone
}

// Close releases the encoder.  Close can be called in every state, and
// calls after the first have no effect.  Closing a writer before the image
// is complete leaves the output truncated.
func (w *Writer) Close() error {
	if w.state == stateClosed {
		return nil
	}
	w.state = stateClosed
	w.enc.Drop()
	return nil
}
