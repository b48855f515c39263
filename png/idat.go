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

package png

import (
	"errors"

	"seehuhn.de/go/raster/internal/chunk"
)

// idatWriter collects the output of the zlib compressor.  Every time the
// buffer fills up, its contents are written as an IDAT chunk.
type idatWriter struct {
	out    *chunk.Writer
	buf    []byte
	chunks int

	// err records the first error from the underlying writer, so that it
	// can be told apart from compression errors.
	err error
}

func (w *idatWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if cap(w.buf) == 0 {
		return 0, errNoBuffer
	}
	n := 0
	for len(p) > 0 {
		k := copy(w.buf[len(w.buf):cap(w.buf)], p)
		w.buf = w.buf[:len(w.buf)+k]
		p = p[k:]
		n += k
		if len(w.buf) == cap(w.buf) {
			if err := w.flush(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// flush writes the buffered data, if any, as one IDAT chunk.
func (w *idatWriter) flush() error {
	if w.err != nil {
		return w.err
	}
	if len(w.buf) == 0 {
		return nil
	}
	err := w.out.WriteChunk(chunk.TypeIDAT, w.buf)
	w.buf = w.buf[:0]
	if err != nil {
		w.err = err
		return err
	}
	w.chunks++
	return nil
}

var errNoBuffer = errors.New("png: IDAT buffer released")
