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

package color

import (
	"errors"
	"fmt"
	"math"
)

// indexedData holds the colour table of an indexed colour space.
type indexedData struct {
	base   *Space
	high   int
	lookup []byte
}

func (d *indexedData) release() {
	d.base.Drop()
}

// NewIndexed returns a new indexed colour space.
//
// The colour table has high+1 entries, each consisting of base.N() bytes.
// High must be in the range 0 to 255.  The lookup table is copied and a
// reference to base is kept until the indexed space is destroyed.
//
// Colour values in an indexed space are index/255, so that the byte values
// of pixel data can be converted like any other component.
func NewIndexed(base *Space, high int, lookup []byte) (*Space, error) {
	if base == nil {
		return nil, errors.New("Indexed: " + errNilSpace.Error())
	}
	if base.IsIndexed() {
		return nil, errors.New("Indexed: base space cannot be indexed")
	}
	if high < 0 || high > 255 {
		return nil, fmt.Errorf("Indexed: invalid high value %d", high)
	}
	need := (high + 1) * base.n
	if len(lookup) < need {
		return nil, fmt.Errorf("Indexed: lookup table too short (%d < %d)", len(lookup), need)
	}

	data := &indexedData{
		base:   base.Keep(),
		high:   high,
		lookup: append([]byte(nil), lookup[:need]...),
	}
	s := &Space{
		name:    "Indexed",
		n:       1,
		toRGB:   indexedToRGB,
		fromRGB: rgbToIndexed,
		clamp:   clampIndexed,
		base:    data.base,
		data:    data,
	}
	s.refs.Store(1)
	return s, nil
}

// High returns the largest valid index of an indexed colour space,
// and -1 for all other colour spaces.
func (s *Space) High() int {
	d, ok := s.data.(*indexedData)
	if !ok {
		return -1
	}
	return d.high
}

// Lookup returns the colour table of an indexed colour space.
// The returned slice must not be modified.
func (s *Space) Lookup() []byte {
	d, ok := s.data.(*indexedData)
	if !ok {
		return nil
	}
	return d.lookup
}

// index returns the table index for the colour value v.
func (d *indexedData) index(v float64) int {
	return clamp(int(math.Round(v*255)), 0, d.high)
}

// expand stores the base space components of colour v in dst.
func (d *indexedData) expand(dst []float64, v float64) {
	n := d.base.n
	entry := d.lookup[d.index(v)*n:]
	lab := d.base.isLab()
	for k := range n {
		x := float64(entry[k])
		switch {
		case lab && k == 0:
			dst[k] = x * 100 / 255
		case lab:
			dst[k] = x - 128
		default:
			dst[k] = x / 255
		}
	}
}

func indexedToRGB(cs *Space, src, dst []float64) {
	d := cs.data.(*indexedData)
	var tmp [MaxColors]float64
	d.expand(tmp[:], src[0])
	d.base.toRGB(d.base, tmp[:d.base.n], dst)
}

// rgbToIndexed selects the table entry closest to the given colour.
func rgbToIndexed(cs *Space, src, dst []float64) {
	d := cs.data.(*indexedData)
	var tmp [MaxColors]float64
	var rgb [3]float64
	best := 0
	bestDist := math.Inf(1)
	for i := 0; i <= d.high; i++ {
		d.expand(tmp[:], float64(i)/255)
		d.base.toRGB(d.base, tmp[:d.base.n], rgb[:])
		dr := rgb[0] - src[0]
		dg := rgb[1] - src[1]
		db := rgb[2] - src[2]
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	dst[0] = float64(best) / 255
}

func clampIndexed(cs *Space, src, dst []float64) {
	d := cs.data.(*indexedData)
	dst[0] = float64(d.index(src[0])) / 255
}
