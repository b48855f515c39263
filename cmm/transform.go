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

package cmm

import (
	"bytes"
	"errors"
)

// Intent is an ICC rendering intent.
type Intent uint8

// The rendering intents, in ICC order.
const (
	Perceptual Intent = iota
	RelativeColorimetric
	Saturation
	AbsoluteColorimetric
)

// Transform converts colours from one profile to another.
//
// A Transform has no mutable state.  Apply does not allocate and can be
// called concurrently.
type Transform struct {
	src, dst *Profile
	intent   Intent
	identity bool

	// per-channel affine map applied in the connection space
	scale, offset [3]float64
}

// NewTransform returns a transform from src to dst.
//
// Profiles based on lookup tables use the tables for the given intent.
// For the absolute colorimetric intent, colours are scaled by the ratio of
// the media white points.  Otherwise, if bpc is set, black point
// compensation maps the black point of src onto the black point of dst.
func NewTransform(src, dst *Profile, intent Intent, bpc bool) (*Transform, error) {
	if src == nil || dst == nil {
		return nil, errors.New("cmm: missing profile")
	}
	if intent > AbsoluteColorimetric {
		intent = Perceptual
	}

	t := &Transform{
		src:    src,
		dst:    dst,
		intent: intent,
		scale:  [3]float64{1, 1, 1},
	}
	if src == dst || bytes.Equal(src.data, dst.data) {
		t.identity = true
		return t, nil
	}

	switch {
	case intent == AbsoluteColorimetric:
		for i := range 3 {
			t.scale[i] = src.white[i] / dst.white[i]
		}
	case bpc:
		bpS := src.blackPoint(intent)
		bpD := dst.blackPoint(intent)
		for i := range 3 {
			den := D50[i] - bpS[i]
			if den <= 1e-6 {
				continue
			}
			t.scale[i] = (D50[i] - bpD[i]) / den
			t.offset[i] = bpD[i] - bpS[i]*t.scale[i]
		}
	}
	return t, nil
}

// Src returns the source profile.
func (t *Transform) Src() *Profile {
	return t.src
}

// Dst returns the destination profile.
func (t *Transform) Dst() *Profile {
	return t.dst
}

// Apply converts the colour in src and stores the result in dst.
// The slice src must have length t.Src().N(), dst must have length at least
// t.Dst().N().
func (t *Transform) Apply(dst, src []float64) {
	if t.identity {
		copy(dst, src[:t.src.n])
		return
	}
	X, Y, Z := t.src.toXYZ(src, t.intent)
	X = X*t.scale[0] + t.offset[0]
	Y = Y*t.scale[1] + t.offset[1]
	Z = Z*t.scale[2] + t.offset[2]
	t.dst.fromXYZ(X, Y, Z, dst, t.intent)
}
