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
	"bytes"
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/raster"
	"seehuhn.de/go/raster/color"
)

// Convert returns a copy of p with the colour samples converted to ds.
// Alpha samples are copied unchanged.  If params is nil, the default
// conversion parameters are used.
func (p *Pixmap) Convert(ds *color.Space, params *color.Params) (*Pixmap, error) {
	if p.Space == nil {
		return nil, errors.New("pixmap: cannot convert an alpha-only pixmap")
	}
	if ds == nil {
		return nil, errors.New("pixmap: missing destination colour space")
	}

	res, err := New(ds, p.W, p.H, p.Alpha)
	if err != nil {
		return nil, err
	}
	res.XRes, res.YRes = p.XRes, p.YRes

	cc, err := color.NewCachedConverter(nil, ds, p.Space, params)
	if err != nil {
		res.Drop()
		return nil, fmt.Errorf("pixmap: %w", err)
	}
	defer cc.Close()

	sn := p.Space.N()
	dn := ds.N()
	var src, dst, clamped [color.MaxColors]float64
	var last, out [color.MaxColors]byte
	valid := false
	hits := 0

	for y := range p.H {
		in := p.Row(y)
		to := res.Row(y)
		for x := range p.W {
			pix := in[x*p.N : x*p.N+sn]
			if !valid || !bytes.Equal(pix, last[:sn]) {
				for i, b := range pix {
					src[i] = sampleToValue(p.Space, i, b)
				}
				cc.Convert(dst[:dn], src[:sn])
				color.ClampColor(ds, dst[:dn], clamped[:dn])
				for i := range dn {
					out[i] = valueToSample(ds, i, clamped[i])
				}
				copy(last[:sn], pix)
				valid = true
			} else {
				hits++
			}
			copy(to[x*res.N:], out[:dn])
			if p.Alpha {
				to[x*res.N+dn] = in[x*p.N+sn]
			}
		}
	}
	raster.Logger().Debug("converted pixmap",
		"from", p.Space, "to", ds, "pixels", p.W*p.H, "repeated", hits)
	return res, nil
}

// sampleToValue maps the sample b of component i to a colour value.
// Samples of indexed spaces are table indices, which map to index/255.
func sampleToValue(cs *color.Space, i int, b byte) float64 {
	if cs.IsIndexed() {
		return float64(b) / 255
	}
	lo, hi := cs.Range(i)
	return lo + float64(b)/255*(hi-lo)
}

func valueToSample(cs *color.Space, i int, v float64) byte {
	if cs.IsIndexed() {
		v *= 255
	} else {
		lo, hi := cs.Range(i)
		v = (v - lo) / (hi - lo) * 255
	}
	return byte(math.Round(max(0, min(255, v))))
}
