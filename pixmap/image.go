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

package pixmap

import (
	"image"

	"golang.org/x/image/draw"

	"seehuhn.de/go/raster/color"
)

// FromImage copies a Go image into a new pixmap.
//
// Gray images give device gray pixmaps and CMYK images give device CMYK
// pixmaps.  Opaque images give device RGB pixmaps, all other images give
// device RGB pixmaps with a (non-premultiplied) alpha channel.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch img := img.(type) {
	case *image.Gray:
		p := mustNew(color.DeviceGray(), w, h, false)
		for y := range h {
			copy(p.Row(y), img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return p
	case *image.Gray16:
		p := mustNew(color.DeviceGray(), w, h, false)
		for y := range h {
			row := p.Row(y)
			src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := range row {
				row[x] = src[2*x]
			}
		}
		return p
	case *image.CMYK:
		p := mustNew(color.DeviceCMYK(), w, h, false)
		for y := range h {
			copy(p.Row(y), img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return p
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
		b = nrgba.Bounds()
	}

	opaque := false
	if o, ok := img.(interface{ Opaque() bool }); ok {
		opaque = o.Opaque()
	}

	p := mustNew(color.DeviceRGB(), w, h, !opaque)
	for y := range h {
		row := p.Row(y)
		src := nrgba.Pix[nrgba.PixOffset(b.Min.X, b.Min.Y+y):]
		if !opaque {
			copy(row, src[:4*w])
			continue
		}
		for x := range w {
			copy(row[3*x:3*x+3], src[4*x:4*x+3])
		}
	}
	return p
}

func mustNew(cs *color.Space, w, h int, alpha bool) *Pixmap {
	p, err := New(cs, w, h, alpha)
	if err != nil {
		// image.Image bounds always give a valid size
		panic(err)
	}
	return p
}

// ToImage returns a Go image with the contents of p.
//
// Device gray pixmaps without alpha give *image.Gray, alpha-only masks give
// *image.Alpha and all other pixmaps are converted to device RGB and
// returned as *image.NRGBA.
func (p *Pixmap) ToImage() (image.Image, error) {
	rect := image.Rect(0, 0, p.W, p.H)

	switch {
	case p.Space == nil:
		img := image.NewAlpha(rect)
		for y := range p.H {
			copy(img.Pix[y*img.Stride:], p.Row(y))
		}
		return img, nil
	case p.Space == color.DeviceGray() && !p.Alpha:
		img := image.NewGray(rect)
		for y := range p.H {
			copy(img.Pix[y*img.Stride:], p.Row(y))
		}
		return img, nil
	}

	src := p
	if p.Space != color.DeviceRGB() {
		rgb, err := p.Convert(color.DeviceRGB(), nil)
		if err != nil {
			return nil, err
		}
		defer rgb.Drop()
		src = rgb
	}

	img := image.NewNRGBA(rect)
	for y := range p.H {
		row := src.Row(y)
		dst := img.Pix[y*img.Stride:]
		for x := range p.W {
			copy(dst[4*x:4*x+3], row[x*src.N:x*src.N+3])
			if src.Alpha {
				dst[4*x+3] = row[x*src.N+3]
			} else {
				dst[4*x+3] = 255
			}
		}
	}
	return img, nil
}
