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
	"bufio"
	"bytes"
	"image"
	"io"
	"os"

	"seehuhn.de/go/raster/band"
	"seehuhn.de/go/raster/color"
	"seehuhn.de/go/raster/pixmap"
)

// SavePixmap writes pix as a PNG file.  The pixmap must be grayscale or
// rgb, optionally with alpha.  If the colour space of the pixmap carries
// an ICC profile, the profile is embedded into the file.
func SavePixmap(filename string, pix *pixmap.Pixmap) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	err = writePixmap(w, pix, nil)
	if err2 := w.Flush(); err == nil {
		err = err2
	}
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}

// WritePixmap writes pix as a PNG image to w.  If w is nil, nothing is
// written.
func WritePixmap(w io.Writer, pix *pixmap.Pixmap) error {
	if w == nil {
		return nil
	}
	return writePixmap(w, pix, nil)
}

func writePixmap(w io.Writer, pix *pixmap.Pixmap, opt *Options) error {
	if pix.Space != nil && !pix.Space.IsGrayOrRGB() {
		return ErrFormat
	}

	bw := NewWriter(w, opt)
	defer bw.Close()

	err := bw.WriteHeader(&band.Header{
		Width:  pix.W,
		Height: pix.H,
		N:      pix.N,
		Alpha:  pix.Alpha,
		XRes:   pix.XRes,
		YRes:   pix.YRes,
	})
	if err != nil {
		return err
	}
	if pix.Space != nil {
		if err := bw.WriteICC(pix.Space); err != nil {
			return err
		}
	}
	return bw.WriteBand(pix.Stride, pix.H, pix.Samples)
}

// EncodePixmap returns the PNG encoding of pix.  Pixmaps in colour spaces
// other than gray and rgb are converted to device rgb first,
// using the conversion parameters params.  If params is nil, the default
// parameters are used.  For empty pixmaps, nil is returned.
func EncodePixmap(pix *pixmap.Pixmap, params *color.Params) ([]byte, error) {
	if pix.IsEmpty() {
		return nil, nil
	}
	if params == nil {
		params = color.DefaultParams()
	}

	if cs := pix.Space; cs != nil && !cs.IsGrayOrRGB() {
		rgb, err := pix.Convert(color.DeviceRGB(), params)
		if err != nil {
			return nil, err
		}
		defer rgb.Drop()
		pix = rgb
	}

	buf := &bytes.Buffer{}
	if err := writePixmap(buf, pix, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeImage returns the PNG encoding of img.  See [EncodePixmap] for
// details.
func EncodeImage(img image.Image, params *color.Params) ([]byte, error) {
	pix := pixmap.FromImage(img)
	defer pix.Drop()
	return EncodePixmap(pix, params)
}
